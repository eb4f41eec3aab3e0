package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-planning/internal/pkg/common"
)

// dedupPurgeThreshold 記錄數超過此值時順手清掉過期指紋
const dedupPurgeThreshold = 1024

// deduplicator 記錄最近的 POST 請求指紋
type deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// Deduplication 請求去重中間件：同一使用者在 window 內重送相同 POST 內容時回 429。
// 需掛在 Identity 之後，指紋才會帶入使用者身分。
func Deduplication(window time.Duration) gin.HandlerFunc {
	return newDeduplicator(window, time.Now).handle
}

func newDeduplicator(window time.Duration, now func() time.Time) *deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      now,
	}
}

func (d *deduplicator) handle(c *gin.Context) {
	// 只處理 POST 請求
	if c.Request.Method != http.MethodPost || c.Request.Body == nil {
		c.Next()
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.LogWarn("Failed to read request body", zap.Error(err))
		c.AbortWithStatusJSON(common.NewErrorResponse(common.ErrRequestTooLarge.Wrap(err)))
		return
	}
	// 恢復請求體
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if d.seen(d.fingerprint(c, body)) {
		common.LogInfo("Duplicate request rejected",
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("user_sub", UserSub(c)),
		)
		c.AbortWithStatusJSON(common.NewErrorResponse(common.ErrTooManyRequests))
		return
	}

	c.Next()
}

// fingerprint 以路徑、已解析的使用者、憑證、來源 IP 與請求體雜湊組成指紋
func (d *deduplicator) fingerprint(c *gin.Context, body []byte) string {
	hash := sha256.Sum256(body)
	return strings.Join([]string{
		c.Request.URL.Path,
		UserSub(c),
		c.GetHeader("Authorization"),
		c.ClientIP(),
		hex.EncodeToString(hash[:]),
	}, "\x00")
}

// seen 判斷指紋是否在時間窗內出現過，並記錄本次請求
func (d *deduplicator) seen(fingerprint string) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now

	if len(d.requests) > dedupPurgeThreshold {
		for k, t := range d.requests {
			if now.Sub(t) > d.window {
				delete(d.requests, k)
			}
		}
	}
	return false
}
