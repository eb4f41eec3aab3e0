package favorites

import (
	"context"
	"fmt"

	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"
)

// Store 收藏儲存介面，以 (userSub, id) 為複合鍵
type Store interface {
	// List 回傳使用者的所有收藏，依 id 排序
	List(ctx context.Context, userSub string) ([]common.Favorite, error)
	// Put 新增或覆寫收藏
	Put(ctx context.Context, fav common.Favorite) error
	// Delete 刪除收藏，不存在時不回傳錯誤
	Delete(ctx context.Context, userSub, id string) error
	Close() error
}

// NewStore 依設定建立收藏儲存；未啟用時回傳 nil
func NewStore(ctx context.Context, cfg config.FavoritesConfig) (Store, error) {
	if cfg.Backend == config.FavoritesNone || cfg.Table == "" {
		return nil, nil
	}

	switch cfg.Backend {
	case config.FavoritesDynamoDB:
		s, err := NewDynamoStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.FavoritesRedis:
		s, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.FavoritesSQLite:
		s, err := NewSQLiteStore(cfg.SQLitePath, cfg.Table)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", cfg.Backend)
	}
}

func normalizeSteps(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
