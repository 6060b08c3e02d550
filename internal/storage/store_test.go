package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackKey(t *testing.T) {
	assert.Equal(t, "cardPacks/JSON Against Humanity", PackKey("JSON Against Humanity"))

	name, ok := PackName("cardPacks/house rules")
	require.True(t, ok)
	assert.Equal(t, "house rules", name)

	_, ok = PackName("settings/theme")
	assert.False(t, ok)
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "packs"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "packs.sqlite"))
			require.NoError(t, err)
			return s
		},
	}
	if dsn := os.Getenv("PARTYCARDS_TEST_POSTGRES_DSN"); dsn != "" {
		backends["postgres"] = func(t *testing.T) Store {
			s, err := OpenPostgresStore(context.Background(), dsn)
			require.NoError(t, err)
			return s
		}
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer func() {
				_ = s.Close()
			}()
			testStore(t, s)
		})
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, PackKey("missing"))
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, PackKey("base"), []byte(`{"white":["a"]}`)))
	require.NoError(t, s.Put(ctx, PackKey("absurd"), []byte(`{"white":["b"]}`)))

	data, err := s.Get(ctx, PackKey("base"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"white":["a"]}`, string(data))

	require.NoError(t, s.Put(ctx, PackKey("base"), []byte(`{"white":["c"]}`)), "overwrite")
	data, err = s.Get(ctx, PackKey("base"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"white":["c"]}`, string(data))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cardPacks/absurd", "cardPacks/base"}, keys)

	require.NoError(t, s.Delete(ctx, PackKey("absurd")))
	require.NoError(t, s.Delete(ctx, PackKey("absurd")), "deleting twice")

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cardPacks/base"}, keys)
}

func TestFileStoreIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cardPacks%2Fx.json.tmp.123"), []byte("{"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, s.Put(context.Background(), PackKey("x"), []byte("{}")))

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cardPacks/x"}, keys)
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "packs.sqlite")

	s, err := OpenSQLiteStore(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, PackKey("base"), []byte(`{}`)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStore(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	data, err := reopened.Get(ctx, PackKey("base"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Backend: "file"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: "postgres"})
	assert.Error(t, err, "postgres without a dsn")

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
