package recipe

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPickForDateIsDeterministic(t *testing.T) {
	assert.Equal(t, pickForDate("2026-10-18"), pickForDate("2026-10-18"))
}

func TestPickForDateBounds(t *testing.T) {
	pool := make(map[string]bool, len(dailyPool))
	for _, item := range dailyPool {
		pool[item] = true
	}

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sizes := make(map[int]bool)
	for i := 0; i < 365; i++ {
		date := day.AddDate(0, 0, i).Format("2006-01-02")
		picked := pickForDate(date)

		assert.GreaterOrEqual(t, len(picked), dailyMinItems, date)
		assert.LessOrEqual(t, len(picked), dailyMaxItems, date)
		seen := make(map[string]bool)
		for _, item := range picked {
			assert.True(t, pool[item], fmt.Sprintf("%s: %q not in pool", date, item))
			assert.False(t, seen[item], fmt.Sprintf("%s: %q picked twice", date, item))
			seen[item] = true
		}
		sizes[len(picked)] = true
	}
	assert.Greater(t, len(sizes), 1)
}

func TestDailySamplerUsesUTCDate(t *testing.T) {
	zone := time.FixedZone("UTC+14", 14*60*60)
	local := time.Date(2026, 10, 19, 1, 0, 0, 0, zone)
	sampler := NewDailySampler(func() time.Time { return local })

	assert.Equal(t, pickForDate("2026-10-18"), sampler.Pick())
}

func TestDailyPoolSize(t *testing.T) {
	assert.Len(t, dailyPool, 27)
}
