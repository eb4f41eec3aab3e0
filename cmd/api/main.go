package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocery-planning/internal/api"
	"grocery-planning/internal/core/ai/cache"
	"grocery-planning/internal/core/ai/service"
	"grocery-planning/internal/core/favorites"
	"grocery-planning/internal/core/recipe"
	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("model", cfg.Model.ID),
		zap.String("transport", cfg.Model.Transport),
		zap.String("region", cfg.Model.Region),
		zap.String("favorites_backend", cfg.Favorites.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	// 模型調用
	invoker, transport, err := service.NewInvoker(ctx, cfg.Model)
	if err != nil {
		common.LogFatal("Failed to initialize model invoker", zap.Error(err))
	}
	defer transport.Close()

	// 初始化快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	// 收藏儲存
	store, err := favorites.NewStore(ctx, cfg.Favorites)
	if err != nil {
		common.LogFatal("Failed to initialize favorites store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	} else {
		common.LogWarn("Favorites table not configured; favorites routes will return TABLE_NOT_CONFIGURED")
	}

	pipeline := recipe.NewPipeline(invoker, recipe.Settings{
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
	})
	recipes := recipe.NewService(pipeline, cacheManager, recipe.NewDailySampler(nil))

	// 設置路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Recipes:   recipes,
		Favorites: store,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
