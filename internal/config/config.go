// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMissingIdentity = errors.New("no active user: set MATCHHISTORY_USER or run the League client")

// DefaultEnvPaths are the .env locations tried in order
var DefaultEnvPaths = []string{".env", "../.env", "../../.env"}

// Config holds every setting the CLI reads from the environment
type Config struct {
	APIKey   string `env:"RIOT_API_KEY"`
	Region   string `env:"RIOT_REGION" envDefault:"americas"`
	Platform string `env:"RIOT_PLATFORM" envDefault:"na1"`

	User  string `env:"MATCHHISTORY_USER"`
	PUUID string `env:"MATCHHISTORY_PUUID"`

	Limit           int `env:"MATCHHISTORY_LIMIT" envDefault:"20"`
	FriendThreshold int `env:"MATCHHISTORY_FRIEND_THRESHOLD" envDefault:"1"`
	Workers         int `env:"MATCHHISTORY_WORKERS" envDefault:"4"`

	SnapshotPath string `env:"MATCHHISTORY_SNAPSHOT"`
	CachePath    string `env:"MATCHHISTORY_CACHE"`
	Lockfile     string `env:"LEAGUE_LOCKFILE"`

	DatabaseURL       string `env:"DATABASE_URL"`
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
}

// LoadDotEnv loads the first .env file found among paths and returns its
// path, or "" when none was loaded. Existing variables are not overridden.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("[Config] Loaded .env from: %s", path)
			return path
		}
	}
	return ""
}

// Load reads a .env file if present, then parses the environment
func Load() (*Config, error) {
	if LoadDotEnv() == "" {
		log.Println("[Config] No .env file found, using environment variables")
	}
	return Parse()
}

// Parse builds a Config from the current environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	cfg.User = strings.TrimSpace(cfg.User)
	return cfg, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit %d", c.Limit)
	}
	if c.FriendThreshold < 0 {
		return fmt.Errorf("invalid friend threshold %d", c.FriendThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	return nil
}

// GameName returns the part of User before the tag
func (c *Config) GameName() string {
	name, _, _ := strings.Cut(c.User, "#")
	return name
}

// TagLine returns the part of User after the tag, if any
func (c *Config) TagLine() string {
	_, tag, _ := strings.Cut(c.User, "#")
	return tag
}
