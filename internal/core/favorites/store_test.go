package favorites

import (
	"context"
	"path/filepath"
	"testing"

	"grocery-planning/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.FavoritesConfig
	}{
		{"backend none", config.FavoritesConfig{Backend: config.FavoritesNone, Table: "favs"}},
		{"no table", config.FavoritesConfig{Backend: config.FavoritesSQLite}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(context.Background(), tt.cfg)
			require.NoError(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestNewStoreSQLite(t *testing.T) {
	s, err := NewStore(context.Background(), config.FavoritesConfig{
		Backend:    config.FavoritesSQLite,
		Table:      "favs",
		SQLitePath: filepath.Join(t.TempDir(), "favorites.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &SQLiteStore{}, s)
}

func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore(context.Background(), config.FavoritesConfig{Backend: "dynamo", Table: "favs"})
	assert.Error(t, err)
}

func TestRedisUserKey(t *testing.T) {
	s := newRedisStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "favs")
	defer s.Close()

	assert.Equal(t, "favorites:favs:user-1", s.userKey("user-1"))
}

func TestDecodeFavorites(t *testing.T) {
	got := decodeFavorites(map[string]string{
		"b":   `{"userSub":"u1","id":"b","title":"Soup","steps":["Boil."]}`,
		"a":   `{"userSub":"u1","id":"ignored","title":"Salad"}`,
		"bad": `not json`,
	})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, []string{}, got[0].Steps)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, []string{"Boil."}, got[1].Steps)
}
