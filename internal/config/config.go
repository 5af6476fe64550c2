package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dyluth/factorydash/internal/feed"
	"github.com/dyluth/factorydash/internal/particles"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = "factorydash.yml"

// Environment overrides, applied after the file is read
const (
	EnvRedisURL = "FACTORYDASH_REDIS_URL"
	EnvInstance = "FACTORYDASH_INSTANCE"
	EnvAPIURL   = "FACTORYDASH_API_URL"
)

// ServerConfig specifies the HTTP backend
type ServerConfig struct {
	Addr         string        `yaml:"addr,omitempty"`          // Listen address (default ":8080")
	ReadTimeout  time.Duration `yaml:"read_timeout,omitempty"`  // Default 5s
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty"` // Default 10s
	Seed         int64         `yaml:"seed,omitempty"`          // Random generator seed, 0 = time based
	Fixed        bool          `yaml:"fixed,omitempty"`         // Serve the fallback data set instead of random values
}

// ClientConfig specifies how CLI clients reach the API
type ClientConfig struct {
	APIURL  string        `yaml:"api_url,omitempty"` // Base URL including /api (default "http://localhost:8080/api")
	Timeout time.Duration `yaml:"timeout,omitempty"` // Per-request timeout (default 10s)
}

// AnimationConfig specifies the dashboard counters
type AnimationConfig struct {
	Duration time.Duration `yaml:"duration,omitempty"` // Ramp length (default 960ms, 60 steps)
}

// FeedConfig enables the Redis activity feed
type FeedConfig struct {
	RedisURL string `yaml:"redis_url,omitempty"` // Empty disables the feed
	Instance string `yaml:"instance,omitempty"`  // Channel namespace (default "default")
}

// Enabled reports whether a Redis URL is configured.
func (f FeedConfig) Enabled() bool { return f.RedisURL != "" }

// Config represents the top-level factorydash.yml configuration
type Config struct {
	Version   string           `yaml:"version"`
	Server    ServerConfig     `yaml:"server,omitempty"`
	Client    ClientConfig     `yaml:"client,omitempty"`
	Animation AnimationConfig  `yaml:"animation,omitempty"`
	Particles particles.Config `yaml:"particles,omitempty"`
	Feed      FeedConfig       `yaml:"feed,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{Version: "1.0"}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Client.APIURL == "" {
		c.Client.APIURL = "http://localhost:8080/api"
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 10 * time.Second
	}
	if c.Animation.Duration == 0 {
		c.Animation.Duration = 960 * time.Millisecond
	}
	if c.Feed.Instance == "" {
		c.Feed.Instance = "default"
	}
	c.Particles = c.Particles.WithDefaults()
}

// Validate applies defaults and performs strict validation
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	c.applyDefaults()

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if u, err := url.Parse(c.Client.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("client.api_url must be an absolute URL, got %q", c.Client.APIURL)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must be positive, got %s", c.Client.Timeout)
	}

	if c.Animation.Duration < 0 {
		return fmt.Errorf("animation.duration must be positive, got %s", c.Animation.Duration)
	}

	if err := c.Particles.Validate(); err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	if err := feed.ValidateInstanceName(c.Feed.Instance); err != nil {
		return fmt.Errorf("feed.instance: %w", err)
	}

	if c.Feed.Enabled() {
		u, err := url.Parse(c.Feed.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return fmt.Errorf("feed.redis_url must be a redis:// URL, got %q", c.Feed.RedisURL)
		}
	}

	return nil
}

// ApplyEnv overrides fields from FACTORYDASH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Feed.RedisURL = v
	}
	if v := os.Getenv(EnvInstance); v != "" {
		c.Feed.Instance = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Client.APIURL = v
	}
}

// Load reads and validates factorydash.yml from the specified path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist. Environment overrides apply either way.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		config := Default()
		config.ApplyEnv()
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return config, nil
	}
	return Load(path)
}
