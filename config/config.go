// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration.
type Config struct {
	APIKey string `env:"GEMINI_API_KEY,required,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	Addr   string `env:"ADDR"         envDefault:"0.0.0.0:9779"`
	DBPath string `env:"DB_PATH"      envDefault:"hunter.db"`

	AwakeningRollDelay    time.Duration `env:"AWAKENING_ROLL_DELAY"    envDefault:"4500ms"`
	AwakeningRevealDelay  time.Duration `env:"AWAKENING_REVEAL_DELAY"  envDefault:"3500ms"`
	ReawakeningStatsDelay time.Duration `env:"REAWAKENING_STATS_DELAY" envDefault:"3s"`
	ReawakeningRankDelay  time.Duration `env:"REAWAKENING_RANK_DELAY"  envDefault:"5s"`
	GenerationTimeout     time.Duration `env:"GENERATION_TIMEOUT"      envDefault:"60s"`
}

// Load reads the given dotenv files, .env when none are named, and then
// parses the environment. Missing dotenv files are not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
