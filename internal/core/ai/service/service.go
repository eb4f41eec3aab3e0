package service

import (
	"context"
	"fmt"

	"grocery-planning/internal/core/ai/bedrock"
	"grocery-planning/internal/core/ai/gateway"
	"grocery-planning/internal/core/ai/model"
	"grocery-planning/internal/core/ai/provider"
	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"

	"go.uber.org/zap"
)

// NewTransport 依設定建立模型傳輸層
func NewTransport(ctx context.Context, cfg config.ModelConfig) (provider.Transport, error) {
	pc := provider.Config{
		Region:  cfg.Region,
		BaseURL: cfg.GatewayURL,
		APIKey:  cfg.GatewayAPIKey,
		Timeout: cfg.Timeout,
	}

	switch cfg.Transport {
	case config.TransportBedrock, "":
		client, err := bedrock.NewClient(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("failed to create bedrock client: %w", err)
		}
		return client, nil
	case config.TransportGateway:
		if cfg.GatewayURL == "" {
			return nil, fmt.Errorf("model gateway url is required")
		}
		return gateway.NewClient(pc), nil
	default:
		return nil, fmt.Errorf("unknown model transport %q", cfg.Transport)
	}
}

// NewInvoker 建立傳輸層與模型調用器；呼叫端負責關閉回傳的 Transport
func NewInvoker(ctx context.Context, cfg config.ModelConfig) (*model.Invoker, provider.Transport, error) {
	transport, err := NewTransport(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	invoker := model.NewInvoker(transport, cfg.ID, model.Options{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})

	common.LogInfo("Model invoker initialized",
		zap.String("model", cfg.ID),
		zap.Stringer("family", invoker.Family()),
		zap.String("transport", transport.Name()),
		zap.Int("max_tokens", cfg.MaxTokens),
		zap.Float64("temperature", cfg.Temperature),
	)
	return invoker, transport, nil
}
