package favorites

import (
	"context"
	"fmt"

	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// dynamoAPI dynamodb.Client 中用到的子集
type dynamoAPI interface {
	dynamodb.QueryAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// dynamoItem 資料表項目：分割鍵 userSub、排序鍵 id
type dynamoItem struct {
	UserSub string   `dynamodbav:"userSub"`
	ID      string   `dynamodbav:"id"`
	Title   string   `dynamodbav:"title"`
	Steps   []string `dynamodbav:"steps"`
}

// DynamoStore 以 DynamoDB 資料表保存收藏
type DynamoStore struct {
	api   dynamoAPI
	table string
}

// NewDynamoStore 以預設憑證鏈建立 DynamoDB 收藏儲存
func NewDynamoStore(ctx context.Context, cfg config.FavoritesConfig) (*DynamoStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	common.LogInfo("Favorites store connected",
		zap.String("backend", config.FavoritesDynamoDB),
		zap.String("region", cfg.Region),
		zap.String("table", cfg.Table),
	)
	return newDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.Table), nil
}

func newDynamoStore(api dynamoAPI, table string) *DynamoStore {
	return &DynamoStore{api: api, table: table}
}

// List 查詢使用者的所有收藏，依排序鍵 id 排列
func (s *DynamoStore) List(ctx context.Context, userSub string) ([]common.Favorite, error) {
	paginator := dynamodb.NewQueryPaginator(s.api, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("userSub = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userSub},
		},
	})

	out := []common.Favorite{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list favorites: %w", err)
		}
		for _, raw := range page.Items {
			var item dynamoItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				common.LogWarn("Skipping undecodable favorite", zap.Error(err))
				continue
			}
			out = append(out, common.Favorite{
				UserSub: item.UserSub,
				ID:      item.ID,
				Title:   item.Title,
				Steps:   normalizeSteps(item.Steps),
			})
		}
	}
	return out, nil
}

// Put 新增或覆寫收藏
func (s *DynamoStore) Put(ctx context.Context, fav common.Favorite) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		UserSub: fav.UserSub,
		ID:      fav.ID,
		Title:   fav.Title,
		Steps:   normalizeSteps(fav.Steps),
	})
	if err != nil {
		return fmt.Errorf("encode favorite: %w", err)
	}

	if _, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put favorite %s: %w", fav.ID, err)
	}
	return nil
}

// Delete 刪除收藏
func (s *DynamoStore) Delete(ctx context.Context, userSub, id string) error {
	if _, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"userSub": &types.AttributeValueMemberS{Value: userSub},
			"id":      &types.AttributeValueMemberS{Value: id},
		},
	}); err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	return nil
}

// Close DynamoDB 客戶端不需關閉
func (s *DynamoStore) Close() error {
	return nil
}
