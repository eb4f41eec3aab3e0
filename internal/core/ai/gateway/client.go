package gateway

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"grocery-planning/internal/core/ai/provider"
	"grocery-planning/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 經由 HTTP 閘道調用模型（與 Bedrock InvokeModel 相同的路徑與請求體）
type Client struct {
	client  *resty.Client
	baseURL string
}

// NewClient 創建閘道客戶端
func NewClient(cfg provider.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Title", "Grocery Planning")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client:  client,
		baseURL: cfg.BaseURL,
	}
}

// InvokeModel 以 POST {base}/model/{modelID}/invoke 調用模型
func (c *Client) InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/model/" + url.PathEscape(modelID) + "/invoke")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to model gateway: %w", err)
	}

	if resp.IsError() {
		common.LogError("Model gateway returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", modelID),
			zap.String("response", common.Preview(resp.String(), 200)),
		)
		return nil, fmt.Errorf("model gateway returned status %d: %s", resp.StatusCode(), common.Preview(resp.String(), 200))
	}

	common.LogDebug("Model gateway responded",
		zap.String("model", modelID),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)

	return resp.Body(), nil
}

// Name 傳輸方式名稱
func (c *Client) Name() string {
	return "gateway:" + c.baseURL
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
