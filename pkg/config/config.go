// Package config loads storefront configuration from the environment.
// Variables are prefixed with STOREFRONT_, e.g. STOREFRONT_CACHE_TTL=30m.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/Sternrassler/storefront-core/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "STOREFRONT"

// Config holds the service configuration.
type Config struct {
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"https://itx-frontend-test.onrender.com"`
	CacheTTL   time.Duration `envconfig:"CACHE_TTL" default:"1h"`

	// CacheMaxEntries bounds the product cache. 0 means unbounded.
	CacheMaxEntries int `envconfig:"CACHE_MAX_ENTRIES" default:"0"`

	// RedisAddr selects the Redis store for the cart count. Empty keeps the
	// count in memory.
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	StoreNamespace string `envconfig:"STORE_NAMESPACE" default:"storefront"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	Prefetch            bool `envconfig:"PREFETCH" default:"false"`
	PrefetchConcurrency int  `envconfig:"PREFETCH_CONCURRENCY" default:"5"`
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment take precedence over dotenv values. With no
// files given, ".env" in the working directory is tried.
func Load(files ...string) (Config, error) {
	if err := loadDotenv(files...); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotenv(files ...string) error {
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil {
			continue
		}
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}

// Validate checks value ranges that envconfig cannot express.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s_API_BASE_URL %q", Prefix, c.APIBaseURL)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%s_CACHE_TTL must be positive (got %s)", Prefix, c.CacheTTL)
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("%s_CACHE_MAX_ENTRIES must not be negative (got %d)", Prefix, c.CacheMaxEntries)
	}
	if c.PrefetchConcurrency <= 0 {
		return fmt.Errorf("%s_PREFETCH_CONCURRENCY must be positive (got %d)", Prefix, c.PrefetchConcurrency)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s_SHUTDOWN_TIMEOUT must be positive (got %s)", Prefix, c.ShutdownTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s_LOG_LEVEL: %w", Prefix, err)
	}
	return nil
}

// UseRedis reports whether a Redis address is configured.
func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}
