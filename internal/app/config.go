package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/restartfu/gophig"
	"github.com/sirupsen/logrus"
)

// Config drives the relay server process.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`
	// StaticDir is served at the root; the default level document is
	// written under its levels/ subdirectory.
	StaticDir string `toml:"static_dir"`
	// LevelName is the file stem of the default level document.
	LevelName string `toml:"level_name"`
	// LevelSeed feeds the town generator when the level file is missing.
	LevelSeed string `toml:"level_seed"`
	// WriteDefaultLevel generates and writes the level file when absent.
	WriteDefaultLevel bool `toml:"write_default_level"`
}

// DefaultConfig returns the stock relay configuration.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		StaticDir:         "client",
		LevelName:         "town-default",
		LevelSeed:         "ittybitycity",
		WriteDefaultLevel: true,
	}
}

// Normalized fills blank fields with defaults.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.StaticDir == "" {
		c.StaticDir = def.StaticDir
	}
	if c.LevelName == "" {
		c.LevelName = def.LevelName
	}
	if c.LevelSeed == "" {
		c.LevelSeed = def.LevelSeed
	}
	return c
}

// LoadConfig reads the TOML config at path, creating it with defaults when
// missing, and applies environment overrides.
func LoadConfig(path string, log *logrus.Logger) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := gophig.SetConfComplex(path, gophig.TOMLMarshaler{}, cfg, 0777); err != nil {
			return cfg, fmt.Errorf("create config: %w", err)
		}
	}
	if err := gophig.GetConfComplex(path, gophig.TOMLMarshaler{}, &cfg); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	cfg = cfg.Normalized()
	return applyEnv(cfg, log), nil
}

func applyEnv(cfg Config, log *logrus.Logger) Config {
	if raw := os.Getenv("RELAY_ADDR"); raw != "" {
		cfg.Addr = raw
	}
	if raw := os.Getenv("RELAY_STATIC_DIR"); raw != "" {
		cfg.StaticDir = raw
	}
	if raw := os.Getenv("RELAY_LEVEL_SEED"); raw != "" {
		cfg.LevelSeed = raw
	}
	if raw := os.Getenv("RELAY_WRITE_LEVEL"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.WriteDefaultLevel = value
		} else {
			log.Warnf("invalid RELAY_WRITE_LEVEL=%q: %v", raw, err)
		}
	}
	return cfg
}
