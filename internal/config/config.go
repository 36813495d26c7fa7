package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode     bool          `env:"DEBUG_MODE"`
	HTTPAddr      string        `env:"HTTP_ADDR"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN"` // CORS origin for the /api routes
	MaxSessions   int           `env:"MAX_SESSIONS"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`   // sessions idle longer than this are dropped
	TickInterval  time.Duration `env:"TICK_INTERVAL"` // one countdown second

	Content ContentConfig
	Mongo   MongoConfig
}

// ContentConfig lists the remote text sources in priority order.
type ContentConfig struct {
	FetchTimeout time.Duration `env:"CONTENT_FETCH_TIMEOUT"` // 0 leaves timeouts to the transport
	QuotableURL  string        `env:"QUOTABLE_URL"`
	DummyJSONURL string        `env:"DUMMYJSON_URL"`
	NinjasURL    string        `env:"NINJAS_URL"`
	NinjasAPIKey string        `env:"NINJAS_API_KEY"`
}

// MongoConfig enables the sentence collection as an extra source when URI is set.
type MongoConfig struct {
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DATABASE"`
	Collection string `env:"MONGO_COLLECTION"`
}

// Defaults returns the configuration before .env, environment and flags are applied.
func Defaults() *Config {
	return &Config{
		DebugMode:     false,
		HTTPAddr:      ":8080",
		AllowedOrigin: "http://localhost:3000",
		MaxSessions:   100,
		SessionTTL:    30 * time.Minute,
		TickInterval:  time.Second,
		Content: ContentConfig{
			QuotableURL:  "https://api.quotable.io/random",
			DummyJSONURL: "https://dummyjson.com/quotes/random",
			NinjasURL:    "https://api.api-ninjas.com/v1/quotes",
			NinjasAPIKey: "demo",
		},
		Mongo: MongoConfig{
			Database:   "SpeedScript",
			Collection: "typingsentences",
		},
	}
}

// Load reads envFile (or .env when empty), then the process environment, on top of Defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http address must not be empty")
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive, got %d", c.MaxSessions)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.Content.FetchTimeout < 0 {
		return fmt.Errorf("content fetch timeout must not be negative, got %s", c.Content.FetchTimeout)
	}
	return nil
}
