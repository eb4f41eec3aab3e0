package recipe

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

const (
	dailySeedSuffix = "|recipe-of-the-day"
	dailyMinItems   = 5
	dailyMaxItems   = 9
)

// dailyPool 每日食譜的候選食材
var dailyPool = []string{
	"eggs", "milk", "flour", "tomatoes", "onion", "garlic", "chicken", "rice", "carrots", "potatoes",
	"olive oil", "cheese", "spinach", "corn", "bell pepper", "mushrooms", "tuna", "pasta", "zucchini", "basil",
	"broth", "butter", "yogurt", "cream", "parsley", "paprika", "lemon",
}

// DailySampler 依 UTC 日期決定當日食材，同一天結果固定
type DailySampler struct {
	now func() time.Time
}

// NewDailySampler 創建每日食材抽樣器，now 為 nil 時使用系統時間
func NewDailySampler(now func() time.Time) *DailySampler {
	if now == nil {
		now = time.Now
	}
	return &DailySampler{now: now}
}

// Pick 回傳今日的 5 到 9 種不重複食材
func (d *DailySampler) Pick() []string {
	return pickForDate(d.now().UTC().Format("2006-01-02"))
}

func pickForDate(date string) []string {
	sum := sha256.Sum256([]byte(date + dailySeedSuffix))
	rnd := rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))

	k := dailyMinItems + rnd.IntN(dailyMaxItems-dailyMinItems+1)
	if k > len(dailyPool) {
		k = len(dailyPool)
	}

	picked := make([]string, 0, k)
	for _, idx := range rnd.Perm(len(dailyPool))[:k] {
		picked = append(picked, dailyPool[idx])
	}
	return picked
}
