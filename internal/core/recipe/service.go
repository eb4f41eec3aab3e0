package recipe

import (
	"context"

	"grocery-planning/internal/core/ai/cache"
	"grocery-planning/internal/pkg/common"

	"go.uber.org/zap"
)

const cacheType = "recipe"

// Service 食譜服務：管線加上記憶體快取
type Service struct {
	pipeline     *Pipeline
	cacheManager *cache.CacheManager
	daily        *DailySampler
}

// NewService 創建新的食譜服務，cacheManager 可為 nil
func NewService(pipeline *Pipeline, cacheManager *cache.CacheManager, daily *DailySampler) *Service {
	if daily == nil {
		daily = NewDailySampler(nil)
	}
	return &Service{
		pipeline:     pipeline,
		cacheManager: cacheManager,
		daily:        daily,
	}
}

// GenerateRecipe 先查快取，未命中才執行管線；fallback 食譜不寫入快取
func (s *Service) GenerateRecipe(ctx context.Context, ingredients []string) (common.Recipe, error) {
	if recipe, ok := s.cacheManager.Get(ingredients); ok {
		common.LogCacheHit(cacheType)
		return recipe, nil
	}
	if s.cacheManager != nil {
		common.LogCacheMiss(cacheType)
	}

	recipe, accepted, err := s.pipeline.generate(ctx, ingredients)
	if err != nil {
		return common.Recipe{}, err
	}

	if accepted && s.cacheManager != nil {
		if err := s.cacheManager.Set(ingredients, recipe); err != nil {
			common.LogWarn("Failed to cache recipe", zap.Error(err))
		}
	}
	return recipe, nil
}

// DailyIngredients 今日食材
func (s *Service) DailyIngredients() []string {
	return s.daily.Pick()
}

// CacheStats 快取統計
func (s *Service) CacheStats() map[string]interface{} {
	return s.cacheManager.GetStats()
}
