package model

import (
	"context"
	"time"

	"grocery-planning/internal/core/ai/provider"
	"grocery-planning/internal/pkg/common"

	"go.uber.org/zap"
)

// Options 單次調用參數，零值表示使用預設值
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Invoker 模型調用器：依模型族群轉換請求與響應格式
type Invoker struct {
	transport provider.Transport
	modelID   string
	family    Family
	defaults  Options
}

// NewInvoker 創建模型調用器
func NewInvoker(transport provider.Transport, modelID string, defaults Options) *Invoker {
	return &Invoker{
		transport: transport,
		modelID:   modelID,
		family:    DetectFamily(modelID),
		defaults:  defaults,
	}
}

// Invoke 送出提示詞並回傳模型文字；傳輸錯誤原樣向上傳遞
func (i *Invoker) Invoke(ctx context.Context, prompt string, opts Options) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = i.defaults.MaxTokens
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = i.defaults.Temperature
	}

	body, err := buildRequest(i.family, prompt, maxTokens, temperature)
	if err != nil {
		return "", err
	}

	common.LogDebug("Invoking model",
		zap.String("model", i.modelID),
		zap.Stringer("family", i.family),
		zap.String("transport", i.transport.Name()),
		zap.Int("max_tokens", maxTokens),
		zap.Float64("temperature", temperature),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	raw, err := i.transport.InvokeModel(ctx, i.modelID, body)
	common.LogModelCall(i.modelID, time.Since(start), err)
	if err != nil {
		return "", common.ErrModelInvocation.Wrap(err)
	}

	text, err := parseResponse(i.family, raw)
	if err != nil {
		return "", common.ErrModelInvocation.Wrap(err)
	}
	return text, nil
}

// ModelID 目前使用的模型 ID
func (i *Invoker) ModelID() string {
	return i.modelID
}

// Family 目前使用的模型族群
func (i *Invoker) Family() Family {
	return i.family
}
