package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore 以本機 SQLite 保存收藏，table 名稱作為命名空間
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore 開啟資料庫並建立資料表
func NewSQLiteStore(dbPath, table string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite 一次只允許一個寫入者
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, table: table}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	common.LogInfo("Favorites store opened",
		zap.String("backend", config.FavoritesSQLite),
		zap.String("path", dbPath),
		zap.String("table", table),
	)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		table_name TEXT NOT NULL,
		user_sub   TEXT NOT NULL,
		id         TEXT NOT NULL,
		title      TEXT NOT NULL,
		steps_json TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (table_name, user_sub, id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// List 列出收藏
func (s *SQLiteStore) List(ctx context.Context, userSub string) ([]common.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, steps_json FROM favorites
		 WHERE table_name = ? AND user_sub = ?
		 ORDER BY id`,
		s.table, userSub,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := []common.Favorite{}
	for rows.Next() {
		fav := common.Favorite{UserSub: userSub}
		var stepsJSON string
		if err := rows.Scan(&fav.ID, &fav.Title, &stepsJSON); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if err := json.Unmarshal([]byte(stepsJSON), &fav.Steps); err != nil {
			common.LogWarn("Skipping undecodable favorite", zap.String("id", fav.ID), zap.Error(err))
			continue
		}
		fav.Steps = normalizeSteps(fav.Steps)
		out = append(out, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return out, nil
}

// Put 新增或覆寫收藏
func (s *SQLiteStore) Put(ctx context.Context, fav common.Favorite) error {
	steps, err := json.Marshal(normalizeSteps(fav.Steps))
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (table_name, user_sub, id, title, steps_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (table_name, user_sub, id) DO UPDATE
		 SET title = excluded.title, steps_json = excluded.steps_json, updated_at = excluded.updated_at`,
		s.table, fav.UserSub, fav.ID, fav.Title, string(steps), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put favorite %s: %w", fav.ID, err)
	}
	return nil
}

// Delete 刪除收藏
func (s *SQLiteStore) Delete(ctx context.Context, userSub, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE table_name = ? AND user_sub = ? AND id = ?`,
		s.table, userSub, id,
	)
	if err != nil {
		return fmt.Errorf("delete favorite %s: %w", id, err)
	}
	return nil
}

// Close 關閉資料庫
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
