package recipe

import (
	"context"
	"testing"
	"time"

	"grocery-planning/internal/core/ai/cache"
	"grocery-planning/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *mockInvoker) {
	t.Helper()
	p, inv := newTestPipeline()
	cm := cache.NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         10,
		TTL:             time.Hour,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = cm.Close() })
	return NewService(p, cm, nil), inv
}

func TestServiceCachesAcceptedRecipe(t *testing.T) {
	s, inv := newTestService(t)
	inv.On("Invoke", mock.Anything, mock.Anything).Return(goodJSON, nil)

	first, err := s.GenerateRecipe(context.Background(), []string{"rice", "garlic"})
	require.NoError(t, err)
	second, err := s.GenerateRecipe(context.Background(), []string{"Rice", "garlic "})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	inv.AssertNumberOfCalls(t, "Invoke", 1)
	assert.Equal(t, 1, s.CacheStats()["size"])
}

func TestServiceDoesNotCacheFallback(t *testing.T) {
	s, inv := newTestService(t)
	inv.On("Invoke", mock.Anything, mock.Anything).Return("no recipe today", nil)

	for i := 0; i < 2; i++ {
		got, err := s.GenerateRecipe(context.Background(), []string{"tuna"})
		require.NoError(t, err)
		assert.Equal(t, fallbackTitle, got.Title)
	}

	inv.AssertNumberOfCalls(t, "Invoke", 6)
	assert.Equal(t, 0, s.CacheStats()["size"])
}

func TestServiceWithoutCache(t *testing.T) {
	p, inv := newTestPipeline()
	s := NewService(p, nil, nil)
	inv.On("Invoke", mock.Anything, mock.Anything).Return(goodJSON, nil)

	for i := 0; i < 2; i++ {
		_, err := s.GenerateRecipe(context.Background(), []string{"rice"})
		require.NoError(t, err)
	}

	inv.AssertNumberOfCalls(t, "Invoke", 2)
	assert.Equal(t, false, s.CacheStats()["enabled"])
}

func TestServiceDailyIngredients(t *testing.T) {
	p, _ := newTestPipeline()
	now := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	s := NewService(p, nil, NewDailySampler(func() time.Time { return now }))

	assert.Equal(t, pickForDate("2026-10-18"), s.DailyIngredients())
}
