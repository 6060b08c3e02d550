package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/partycards/internal/config"
	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collectionJSON = `{
  "white": ["A", "B", "C", "D"],
  "black": [{"text": "P1", "pick": 1}, {"text": "P2", "pick": 1}, {"text": "P3", "pick": 1}],
  "packs": {"base": {"name": "Base", "white": [0, 1, 2, 3], "black": [0, 1, 2]}}
}`

func testApp(t *testing.T) *app {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	store := storage.NewMemoryStore()
	manager := packs.NewManager(store, packs.WithLogger(logger))
	_, err := manager.Import(context.Background(), "cah", []byte(collectionJSON))
	require.NoError(t, err)

	return &app{
		cfg:     config.Default(),
		env:     &config.Env{},
		logger:  logger,
		store:   store,
		manager: manager,
	}
}

func TestSessionFlagsResolve(t *testing.T) {
	a := testApp(t)
	a.env.Seed = "from-env"
	a.cfg.Game.Packs = []string{"cah:base"}

	flags, sels, err := SessionFlags{}.resolve(a)
	require.NoError(t, err)
	assert.Equal(t, "from-env", flags.Seed)
	assert.Equal(t, 1, flags.Players)
	assert.Equal(t, 7, flags.Cards)
	assert.Equal(t, []packs.RawSelection{{Collection: "cah", Pack: "base"}}, sels)

	flags, sels, err = SessionFlags{Seed: "flag", Players: 2, Cards: 3, Packs: "other:x"}.resolve(a)
	require.NoError(t, err)
	assert.Equal(t, "flag", flags.Seed)
	assert.Equal(t, 2, flags.Players)
	assert.Equal(t, 3, flags.Cards)
	assert.Equal(t, "other", sels[0].Collection)
}

func TestSessionFlagsResolveGeneratesSeed(t *testing.T) {
	a := testApp(t)

	flags, _, err := SessionFlags{Packs: "cah:base"}.resolve(a)
	require.NoError(t, err)
	assert.Len(t, flags.Seed, 8)
}

func TestSessionFlagsResolveNeedsPacks(t *testing.T) {
	_, _, err := SessionFlags{Seed: "x"}.resolve(testApp(t))
	assert.ErrorContains(t, err, "no packs selected")
}

func TestDeal(t *testing.T) {
	a := testApp(t)

	session, flags, err := deal(a, SessionFlags{Seed: "x", Players: 2, Index: 1, Cards: 2, Packs: "cah:base"})
	require.NoError(t, err)
	assert.Equal(t, "x", flags.Seed)
	assert.Equal(t, "P3", session.Prompt().Text)
	assert.Equal(t, []string{"A", "D"}, session.Hand())

	_, _, err = deal(a, SessionFlags{Seed: "x", Cards: 2, Packs: "cah:nope"})
	assert.ErrorIs(t, err, packs.ErrPackNotFound)
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "partycards.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("game {\n  cards_per_player = 4\n}\n"), 0644))

	cfg, _, err := loadConfig(&Globals{
		Config:   cfgPath,
		EnvFile:  filepath.Join(dir, "missing.env"),
		LogLevel: "DEBUG",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Game.CardsPerPlayer)
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	_, _, err = loadConfig(&Globals{
		Config:   cfgPath,
		EnvFile:  filepath.Join(dir, "missing.env"),
		LogLevel: "chatty",
	})
	assert.Error(t, err)
}

func TestSetupDownloadsDefaultSourceFromStaticDir(t *testing.T) {
	dir := t.TempDir()
	static := filepath.Join(dir, "public")
	require.NoError(t, os.Mkdir(static, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "cah-all-compact.json"), []byte(collectionJSON), 0644))

	cfgPath := filepath.Join(dir, "partycards.hcl")
	body := fmt.Sprintf("server {\n  static_dir = %q\n}\nstorage {\n  backend = \"memory\"\n}\n", static)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))

	a, err := setup(context.Background(), &Globals{Config: cfgPath, EnvFile: filepath.Join(dir, "missing.env"), LogLevel: "error"})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.manager.DownloadAll(context.Background(), a.cfg.PackSources()))
	c, ok := a.manager.Get("JSON Against Humanity")
	require.True(t, ok)
	assert.Len(t, c.White, 4)
}
