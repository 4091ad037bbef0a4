// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs to run. Values come from the
// environment; a .env file is loaded first when present.
type Config struct {
	APIKey string `env:"GEMINI_API_KEY,required"`
	Model  string `env:"DM_MODEL" envDefault:"gemini-2.5-flash"`
	Addr   string `env:"DM_ADDR" envDefault:"0.0.0.0:9779"`

	DataDir string `env:"DM_DATA_DIR" envDefault:"data"`
	SaveDir string `env:"DM_SAVE_DIR" envDefault:"data/saves"`

	CompletionTimeout time.Duration `env:"DM_COMPLETION_TIMEOUT" envDefault:"30s"`
	MaxSaveFiles      int           `env:"DM_MAX_SAVE_FILES" envDefault:"10"`
	Temperature       float32       `env:"DM_TEMPERATURE" envDefault:"0.7"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
