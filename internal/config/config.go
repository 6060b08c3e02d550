// Package config loads partycards settings from an HCL file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/storage"
)

// Config represents the complete configuration
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Storage *StorageSettings `hcl:"storage,block"`
	Game    *GameSettings    `hcl:"game,block"`
	Sources []SourceConfig   `hcl:"source,block"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	StaticDir   string `hcl:"static_dir,optional"`
	BaseURL     string `hcl:"base_url,optional"`
	IdleTimeout *int   `hcl:"idle_timeout,optional"` // seconds, 0 disables
}

// StorageSettings selects where downloaded packs are cached
type StorageSettings struct {
	Backend string `hcl:"backend,optional"`
	Path    string `hcl:"path,optional"`
	DSN     string `hcl:"dsn,optional"`
}

// GameSettings contains defaults for new sessions
type GameSettings struct {
	CardsPerPlayer int      `hcl:"cards_per_player,optional"`
	Players        int      `hcl:"players,optional"`
	Packs          []string `hcl:"packs,optional"`
}

// SourceConfig defines a downloadable pack collection
type SourceConfig struct {
	Name string `hcl:"name,label"`
	URL  string `hcl:"url"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validBackends = map[string]bool{
	"memory":   true,
	"file":     true,
	"sqlite":   true,
	"postgres": true,
}

// Default returns the default configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.IdleTimeout == nil {
		idle := 300
		c.Server.IdleTimeout = &idle
	}

	if c.Storage == nil {
		c.Storage = &StorageSettings{}
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case "sqlite":
			c.Storage.Path = "partycards.sqlite"
		case "file":
			c.Storage.Path = "packs"
		}
	}

	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.CardsPerPlayer == 0 {
		c.Game.CardsPerPlayer = 7
	}
	if c.Game.Players == 0 {
		c.Game.Players = 1
	}

	if len(c.Sources) == 0 {
		for _, src := range packs.DefaultSources {
			c.Sources = append(c.Sources, SourceConfig{Name: src.Name, URL: src.URL})
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if !validLogLevels[c.Server.LogLevel] {
		return fmt.Errorf("invalid log level %q", c.Server.LogLevel)
	}
	if c.Server.IdleTimeout != nil && *c.Server.IdleTimeout < 0 {
		return fmt.Errorf("idle timeout must not be negative")
	}

	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("postgres storage requires a dsn")
	}

	if c.Game.CardsPerPlayer < 1 {
		return fmt.Errorf("cards per player must be positive")
	}
	if c.Game.Players < 1 {
		return fmt.Errorf("players must be positive")
	}
	if _, err := packs.ParseRawSelections(joinPacks(c.Game.Packs)); err != nil {
		return fmt.Errorf("game packs: %w", err)
	}

	seen := make(map[string]bool)
	for _, src := range c.Sources {
		if src.URL == "" {
			return fmt.Errorf("source %s: url is required", src.Name)
		}
		if seen[src.Name] {
			return fmt.Errorf("source %s: defined more than once", src.Name)
		}
		seen[src.Name] = true
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetIdleTimeout returns the WebSocket idle timeout. Zero means sessions
// never time out.
func (c *Config) GetIdleTimeout() time.Duration {
	if c.Server.IdleTimeout == nil {
		return 0
	}
	return time.Duration(*c.Server.IdleTimeout) * time.Second
}

// StorageOptions converts the storage block for storage.Open
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
		DSN:     c.Storage.DSN,
	}
}

// PackSources converts the configured sources for the pack manager
func (c *Config) PackSources() []packs.Source {
	out := make([]packs.Source, len(c.Sources))
	for i, src := range c.Sources {
		out[i] = packs.Source{Name: src.Name, URL: src.URL}
	}
	return out
}

// GetSource returns a source by name
func (c *Config) GetSource(name string) (packs.Source, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return packs.Source{Name: src.Name, URL: src.URL}, true
		}
	}
	return packs.Source{}, false
}

// DefaultSelections parses the game block's pack list
func (c *Config) DefaultSelections() []packs.RawSelection {
	sels, _ := packs.ParseRawSelections(joinPacks(c.Game.Packs))
	return sels
}

func joinPacks(list []string) string {
	return strings.Join(list, ",")
}
