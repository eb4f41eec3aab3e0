package api

import (
	"net/http"
	"time"

	favoritesHandler "grocery-planning/internal/api/handlers/favorites"
	"grocery-planning/internal/api/handlers/health"
	recipeHandler "grocery-planning/internal/api/handlers/recipe"
	"grocery-planning/internal/api/middleware"
	"grocery-planning/internal/core/favorites"
	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求體大小限制 (1MB)
const maxBodySize = 1 << 20

// RecipeService 路由需要的食譜服務
type RecipeService interface {
	recipeHandler.Generator
	health.StatsProvider
}

// Dependencies 路由依賴的服務；Favorites 為 nil 表示未設定收藏資料表
type Dependencies struct {
	Recipes   RecipeService
	Favorites favorites.Store
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", "X-Request-ID", "X-Cognito-Identity-Id"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Identity(cfg.Auth))
	router.Use(middleware.Deduplication(cfg.DedupWindow))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 非預檢的 OPTIONS 請求
	router.OPTIONS("/*path", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// 健康檢查路由
	healthH := health.NewHandler(cfg, deps.Recipes)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	recipeH := recipeHandler.NewHandler(deps.Recipes, cfg.App.Debug)
	favoritesH := favoritesHandler.NewHandler(deps.Favorites)

	register := func(g gin.IRoutes) {
		g.POST("/recipes", recipeH.HandleGenerate)
		g.GET("/favorites", favoritesH.HandleList)
		g.POST("/favorites", favoritesH.HandleSave)
		g.DELETE("/favorites/:id", favoritesH.HandleDelete)
	}

	// 根路徑沿用雲端函式的呼叫方式
	router.POST("/", recipeH.HandleGenerate)
	register(router)
	register(router.Group("/api/v1"))

	common.LogInfo("Router setup completed successfully",
		zap.Bool("favorites_enabled", deps.Favorites != nil),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}
