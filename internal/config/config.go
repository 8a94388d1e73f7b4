// Package config loads the runtime configuration from the environment.
//
// Values come from FILMS_* variables (a .env file is loaded first when
// present) laid over the defaults below, then checked with validator tags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FILMS_"

type Config struct {
	Env             string        `koanf:"env" validate:"required"`
	Port            string        `koanf:"port" validate:"required,numeric"`
	StoreDriver     string        `koanf:"store_driver" validate:"required,oneof=mongo memory"`
	MongoURI        string        `koanf:"mongo_uri" validate:"required_if=StoreDriver mongo"`
	MongoDB         string        `koanf:"mongo_db" validate:"required_if=StoreDriver mongo"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisPass       string        `koanf:"redis_password"`
	CacheTTL        time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	LogLevel        string        `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
	LogFormat       string        `koanf:"log_format" validate:"required,oneof=json console"`
	BcryptCost      int           `koanf:"bcrypt_cost" validate:"min=4,max=31"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimit       RateLimit     `koanf:"rate_limit"`
}

// RateLimit configures the per-client token bucket.
type RateLimit struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps" validate:"required_if=Enabled true,gte=0"`
	Burst   int     `koanf:"burst" validate:"required_if=Enabled true,gte=0"`
}

var defaults = map[string]any{
	"env":                "development",
	"port":               "8080",
	"store_driver":       "mongo",
	"mongo_uri":          "mongodb://localhost:27017",
	"mongo_db":           "api_films",
	"redis_addr":         "",
	"redis_password":     "",
	"cache_ttl":          "30s",
	"log_level":          "info",
	"log_format":         "console",
	"bcrypt_cost":        10,
	"request_timeout":    "15s",
	"shutdown_timeout":   "10s",
	"rate_limit.enabled": true,
	"rate_limit.rps":     10.0,
	"rate_limit.burst":   20,
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load()
}

func load() (*Config, error) {
	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("config: default %s: %w", key, err)
		}
	}

	// The port has always been read from a bare PORT; FILMS_PORT wins over it.
	if p := os.Getenv("PORT"); p != "" {
		_ = k.Set("port", p)
	}

	// FILMS_RATE_LIMIT_RPS -> rate_limit.rps; every other key is flat.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if rest, ok := strings.CutPrefix(key, "rate_limit_"); ok {
			return "rate_limit." + rest
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	// Production always logs JSON lines.
	if cfg.IsProduction() {
		cfg.LogFormat = "json"
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
