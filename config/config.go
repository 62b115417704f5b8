package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Sources   SourcesConfig
	Cache     CacheConfig
	Resolver  ResolverConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds the external product-data sources, in fallback priority
// order: retailers first (config order), then Open Food Facts when enabled.
type SourcesConfig struct {
	FetchTimeout      time.Duration       `mapstructure:"fetch_timeout"`
	RequestsPerSecond float64             `mapstructure:"requests_per_second"`
	UserAgents        []string            `mapstructure:"user_agents"`
	Retailers         []RetailerConfig    `mapstructure:"retailers"`
	OpenFoodFacts     OpenFoodFactsConfig `mapstructure:"openfoodfacts"`
}

// RetailerConfig declares one scraped retailer source. URL variants contain
// the {barcode} placeholder. MissThreshold bounds how many confirmed misses a
// single lookup tolerates before giving up on this source; 0 exhausts every
// variant/agent combination.
type RetailerConfig struct {
	ID            string   `mapstructure:"id"`
	Label         string   `mapstructure:"label"`
	URLVariants   []string `mapstructure:"url_variants"`
	UserAgents    []string `mapstructure:"user_agents"`
	MissThreshold int      `mapstructure:"miss_threshold"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "redis"
	TTL  time.Duration `mapstructure:"ttl"`
}

// ResolverConfig holds batch resolution configuration
type ResolverConfig struct {
	MaxBatchSize int           `mapstructure:"max_batch_size"`
	Concurrency  int           `mapstructure:"concurrency"`
	ChunkDelay   time.Duration `mapstructure:"chunk_delay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // inbound requests per minute per client IP
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/scanstock/")

	// Environment variable settings
	v.SetEnvPrefix("SCANSTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Source defaults
	v.SetDefault("sources.fetch_timeout", "10s")
	v.SetDefault("sources.requests_per_second", 2.0)
	v.SetDefault("sources.openfoodfacts.enabled", true)
	v.SetDefault("sources.openfoodfacts.base_url", "https://world.openfoodfacts.org")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")

	// Resolver defaults
	v.SetDefault("resolver.max_batch_size", 100)
	v.SetDefault("resolver.concurrency", 5)
	v.SetDefault("resolver.chunk_delay", "500ms")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Resolver.Concurrency < 1 {
		return fmt.Errorf("resolver concurrency must be at least 1, got: %d", config.Resolver.Concurrency)
	}

	if config.Resolver.MaxBatchSize < 1 {
		return fmt.Errorf("resolver max batch size must be at least 1, got: %d", config.Resolver.MaxBatchSize)
	}

	if !config.Sources.OpenFoodFacts.Enabled && len(config.Sources.Retailers) == 0 {
		return fmt.Errorf("at least one product source must be configured")
	}

	for _, retailer := range config.Sources.Retailers {
		if retailer.ID == "" {
			return fmt.Errorf("retailer source is missing an id")
		}
		if len(retailer.URLVariants) == 0 {
			return fmt.Errorf("retailer source %q has no url_variants", retailer.ID)
		}
	}

	return nil
}
