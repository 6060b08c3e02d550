package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names read by the CLI and server
const (
	// EnvSeed provides the shared session seed
	EnvSeed = "PARTYCARDS_SEED"

	// EnvServer specifies the base URL that relative pack sources resolve against
	EnvServer = "PARTYCARDS_SERVER"

	// EnvLogLevel overrides server.log_level
	EnvLogLevel = "PARTYCARDS_LOG_LEVEL"

	// EnvStorageBackend overrides storage.backend
	EnvStorageBackend = "PARTYCARDS_STORAGE_BACKEND"

	// EnvStorageDSN overrides storage.dsn
	EnvStorageDSN = "PARTYCARDS_STORAGE_DSN"

	// EnvCardsPerPlayer overrides game.cards_per_player
	EnvCardsPerPlayer = "PARTYCARDS_CARDS_PER_PLAYER"

	// EnvPacks overrides game.packs with a comma separated list
	EnvPacks = "PARTYCARDS_PACKS"
)

// Env holds values that only come from the environment
type Env struct {
	// Seed is the shared session seed ("" means not set)
	Seed string
}

// LoadDotEnv loads variables from the given .env files. Missing files are
// skipped and existing environment variables are never overridden.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv applies environment overrides to cfg and returns the
// environment-only values.
func FromEnv(cfg *Config) (*Env, error) {
	env := &Env{Seed: os.Getenv(EnvSeed)}

	if server := os.Getenv(EnvServer); server != "" {
		cfg.Server.BaseURL = server
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Server.LogLevel = strings.ToLower(level)
	}
	if backend := os.Getenv(EnvStorageBackend); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dsn := os.Getenv(EnvStorageDSN); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if cardsStr := os.Getenv(EnvCardsPerPlayer); cardsStr != "" {
		cards, err := strconv.Atoi(cardsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvCardsPerPlayer, err)
		}
		cfg.Game.CardsPerPlayer = cards
	}
	if list := os.Getenv(EnvPacks); list != "" {
		cfg.Game.Packs = strings.Split(list, ",")
	}

	return env, nil
}
