package bedrock

import (
	"context"
	"fmt"
	"time"

	"grocery-planning/internal/core/ai/provider"
	"grocery-planning/internal/pkg/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

// invokeAPI bedrockruntime.Client 中用到的子集
type invokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client Bedrock Runtime 傳輸層
type Client struct {
	api     invokeAPI
	region  string
	timeout time.Duration
}

// NewClient 以預設憑證鏈建立 Bedrock Runtime 客戶端
func NewClient(ctx context.Context, cfg provider.Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	common.LogInfo("Bedrock runtime client initialized",
		zap.String("region", cfg.Region),
		zap.Duration("timeout", cfg.Timeout),
	)

	return newClient(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

func newClient(api invokeAPI, cfg provider.Config) *Client {
	return &Client{
		api:     api,
		region:  cfg.Region,
		timeout: cfg.Timeout,
	}
}

// InvokeModel 調用 Bedrock InvokeModel，回傳原始響應體
func (c *Client) InvokeModel(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke %s: %w", modelID, err)
	}
	if out == nil {
		return nil, fmt.Errorf("bedrock invoke %s: empty output", modelID)
	}

	return out.Body, nil
}

// Name 傳輸方式名稱
func (c *Client) Name() string {
	return "bedrock:" + c.region
}

// Close 關閉客戶端
func (c *Client) Close() error {
	return nil
}
