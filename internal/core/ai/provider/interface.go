package provider

import (
	"context"
	"time"
)

// Transport 定義模型調用服務：以模型 ID 與原始請求體調用，回傳原始響應體
type Transport interface {
	// InvokeModel 同步調用模型，傳輸層錯誤直接回傳
	InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error)

	// Name 傳輸方式名稱（用於日誌）
	Name() string

	// Close 關閉傳輸連接
	Close() error
}

// Config 定義傳輸層配置
type Config struct {
	Region  string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}
