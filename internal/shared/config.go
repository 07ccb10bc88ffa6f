package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Search   SearchConfig   `toml:"search"`
	Cache    CacheConfig    `toml:"cache"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// APIConfig contains settings for the TVmaze REST client.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	UserAgent      string  `toml:"user_agent"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	Burst          int     `toml:"burst"`
}

// SearchConfig contains search-as-you-type settings.
type SearchConfig struct {
	DebounceMS  int `toml:"debounce_ms"`
	ResultLimit int `toml:"result_limit"`
}

// CacheConfig contains in-memory cache settings.
type CacheConfig struct {
	DetailsTTLSeconds int  `toml:"details_ttl_seconds"`
	WarmFromDatabase  bool `toml:"warm_from_database"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Per-client request budget for the JSON API. Zero disables limiting.
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// Timeout returns the HTTP client timeout as a [time.Duration].
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce returns the search-as-you-type quiet period.
func (c SearchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// DetailsTTL returns how long fetched show details stay cached.
func (c CacheConfig) DetailsTTL() time.Duration {
	return time.Duration(c.DetailsTTLSeconds) * time.Second
}

// Addr returns the host:port pair the JSON server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports settings that would make the client unusable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if c.API.RatePerSecond < 0 {
		return fmt.Errorf("%w: api.rate_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Search.DebounceMS < 0 {
		return fmt.Errorf("%w: search.debounce_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
