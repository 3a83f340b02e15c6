package client

import (
	"fmt"
	"os"
	"strconv"

	"github.com/restartfu/gophig"
	"github.com/sirupsen/logrus"
)

// Config drives the headless game client.
type Config struct {
	// ServerURL locates the relay; the websocket endpoint and level
	// documents derive from it.
	ServerURL string `toml:"server_url"`
	// LevelName is the file stem fetched from the relay's levels directory.
	LevelName string `toml:"level_name"`
	// LevelSeed feeds the fallback town generator when the fetch fails.
	LevelSeed string `toml:"level_seed"`
	// FrameRate is the simulation rate in frames per second.
	FrameRate int `toml:"frame_rate"`
	// DayRate advances the world clock this many hours per real second;
	// zero keeps a fixed clock.
	DayRate float32 `toml:"day_rate"`
	// Wander switches the input source to the roaming walker.
	Wander bool `toml:"wander"`
	// WanderSeed fixes the walker's roaming pattern.
	WanderSeed int64 `toml:"wander_seed"`
}

// DefaultConfig returns the stock client configuration.
func DefaultConfig() Config {
	return Config{
		ServerURL:  "http://localhost:8080",
		LevelName:  "town-default",
		LevelSeed:  "ittybitycity",
		FrameRate:  60,
		WanderSeed: 1,
	}
}

// Normalized fills blank or unusable fields with defaults.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.ServerURL == "" {
		c.ServerURL = def.ServerURL
	}
	if c.LevelName == "" {
		c.LevelName = def.LevelName
	}
	if c.LevelSeed == "" {
		c.LevelSeed = def.LevelSeed
	}
	if c.FrameRate <= 0 {
		c.FrameRate = def.FrameRate
	}
	if c.WanderSeed == 0 {
		c.WanderSeed = def.WanderSeed
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
	return applyEnv(cfg, log).Normalized(), nil
}

func applyEnv(cfg Config, log *logrus.Logger) Config {
	if raw := os.Getenv("GAME_SERVER_URL"); raw != "" {
		cfg.ServerURL = raw
	}
	if raw := os.Getenv("GAME_LEVEL_NAME"); raw != "" {
		cfg.LevelName = raw
	}
	if raw := os.Getenv("GAME_FRAME_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.FrameRate = value
		} else {
			log.Warnf("invalid GAME_FRAME_RATE=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("GAME_WANDER"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Wander = value
		} else {
			log.Warnf("invalid GAME_WANDER=%q: %v", raw, err)
		}
	}
	return cfg
}
