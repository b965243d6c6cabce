// Package config assembles runtime settings from the environment and a YAML
// tunables file. Construction is fail fast: a malformed file or an unusable
// value is an error here, not a mid-pipeline surprise.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/seamhead/pennant-edge/pkg/season"
)

type Config struct {
	// Inputs
	Year        int
	ResultsPath string
	QuotesPath  string
	TeamsPath   string
	CachePath   string

	// Replay
	SeedRating      float64
	K               float64
	HomeFieldFactor float64

	// Wagering
	EdgeThreshold float64
	KellyFraction float64
	StakeCap      float64
	Bankroll      float64

	// Telemetry
	LogLevel    string
	MetricsAddr string
}

// Load reads a .env file if present, then the environment, applying the
// reference tuning as defaults.
func Load() *Config {
	_ = godotenv.Load()

	replay := season.DefaultParams()
	return &Config{
		Year:        envInt("SEASON_YEAR", 0),
		ResultsPath: envStr("RESULTS_PATH", ""),
		QuotesPath:  envStr("QUOTES_PATH", ""),
		TeamsPath:   envStr("TEAMS_PATH", "teams.yaml"),
		CachePath:   envStr("FEATURE_CACHE_PATH", "features.db"),

		SeedRating:      envFloat("SEED_RATING", replay.SeedRating),
		K:               envFloat("RATING_K", replay.K),
		HomeFieldFactor: envFloat("HOME_FIELD_FACTOR", replay.HomeFieldFactor),

		EdgeThreshold: envFloat("EDGE_THRESHOLD", 0.1),
		KellyFraction: envFloat("KELLY_FRACTION", 0.5),
		StakeCap:      envFloat("STAKE_CAP", 1.0),
		Bankroll:      envFloat("BANKROLL", 1.0),

		LogLevel:    envStr("LOG_LEVEL", "info"),
		MetricsAddr: envStr("METRICS_ADDR", ""),
	}
}

// Validate checks values the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Year <= 0 {
		return fmt.Errorf("config: season year %d is not usable", c.Year)
	}
	if c.ResultsPath == "" {
		return fmt.Errorf("config: results path is required")
	}
	if err := c.ReplayParams().Validate(); err != nil {
		return err
	}
	if c.EdgeThreshold < 0 {
		return fmt.Errorf("config: edge threshold %v is negative", c.EdgeThreshold)
	}
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("config: kelly fraction %v out of (0, 1]", c.KellyFraction)
	}
	if c.Bankroll <= 0 {
		return fmt.Errorf("config: bankroll %v is not positive", c.Bankroll)
	}
	return nil
}

// ReplayParams maps the config onto replay tunables.
func (c *Config) ReplayParams() season.Params {
	return season.Params{
		SeedRating:      c.SeedRating,
		K:               c.K,
		HomeFieldFactor: c.HomeFieldFactor,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
