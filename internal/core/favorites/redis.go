package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 Redis hash 保存收藏：每位使用者一個 hash，欄位為收藏 id
type RedisStore struct {
	client *redis.Client
	table  string
}

// NewRedisStore 創建 Redis 收藏儲存並測試連線
func NewRedisStore(ctx context.Context, cfg config.FavoritesConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Favorites store connected",
		zap.String("backend", config.FavoritesRedis),
		zap.String("addr", cfg.RedisAddr),
		zap.String("table", cfg.Table),
	)
	return newRedisStore(client, cfg.Table), nil
}

func newRedisStore(client *redis.Client, table string) *RedisStore {
	return &RedisStore{client: client, table: table}
}

// userKey 使用者收藏的 hash 鍵
func (s *RedisStore) userKey(userSub string) string {
	return fmt.Sprintf("favorites:%s:%s", s.table, userSub)
}

// List 列出收藏
func (s *RedisStore) List(ctx context.Context, userSub string) ([]common.Favorite, error) {
	values, err := s.client.HGetAll(ctx, s.userKey(userSub)).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return decodeFavorites(values), nil
}

// Put 新增或覆寫收藏
func (s *RedisStore) Put(ctx context.Context, fav common.Favorite) error {
	fav.Steps = normalizeSteps(fav.Steps)
	data, err := json.Marshal(fav)
	if err != nil {
		return fmt.Errorf("encode favorite: %w", err)
	}
	if err := s.client.HSet(ctx, s.userKey(fav.UserSub), fav.ID, data).Err(); err != nil {
		return fmt.Errorf("put favorite %s: %w", fav.ID, err)
	}
	return nil
}

// Delete 刪除收藏
func (s *RedisStore) Delete(ctx context.Context, userSub, id string) error {
	if err := s.client.HDel(ctx, s.userKey(userSub), id).Err(); err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	return nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// decodeFavorites 解析 hash 內容，壞掉的項目略過並記錄
func decodeFavorites(values map[string]string) []common.Favorite {
	out := make([]common.Favorite, 0, len(values))
	for id, raw := range values {
		var fav common.Favorite
		if err := json.Unmarshal([]byte(raw), &fav); err != nil {
			common.LogWarn("Skipping undecodable favorite", zap.String("id", id), zap.Error(err))
			continue
		}
		fav.ID = id
		fav.Steps = normalizeSteps(fav.Steps)
		out = append(out, fav)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
