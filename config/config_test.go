package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SCANSTOCK_SERVER_PORT")
		os.Unsetenv("SCANSTOCK_SERVER_ENVIRONMENT")
		os.Unsetenv("SCANSTOCK_SOURCES_FETCH_TIMEOUT")
		os.Unsetenv("SCANSTOCK_SOURCES_OPENFOODFACTS_ENABLED")
		os.Unsetenv("SCANSTOCK_SOURCES_OPENFOODFACTS_BASE_URL")
		os.Unsetenv("SCANSTOCK_CACHE_TYPE")
		os.Unsetenv("SCANSTOCK_CACHE_TTL")
		os.Unsetenv("SCANSTOCK_RESOLVER_MAX_BATCH_SIZE")
		os.Unsetenv("SCANSTOCK_RESOLVER_CONCURRENCY")
		os.Unsetenv("SCANSTOCK_RESOLVER_CHUNK_DELAY")
		os.Unsetenv("SCANSTOCK_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Sources.FetchTimeout != 10*time.Second {
			t.Errorf("Sources.FetchTimeout = %v, want 10s", cfg.Sources.FetchTimeout)
		}
		if !cfg.Sources.OpenFoodFacts.Enabled {
			t.Error("Sources.OpenFoodFacts.Enabled = false, want true")
		}
		if cfg.Sources.OpenFoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("Sources.OpenFoodFacts.BaseURL = %s, want https://world.openfoodfacts.org", cfg.Sources.OpenFoodFacts.BaseURL)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Resolver.MaxBatchSize != 100 {
			t.Errorf("Resolver.MaxBatchSize = %d, want 100", cfg.Resolver.MaxBatchSize)
		}
		if cfg.Resolver.Concurrency != 5 {
			t.Errorf("Resolver.Concurrency = %d, want 5", cfg.Resolver.Concurrency)
		}
		if cfg.Resolver.ChunkDelay != 500*time.Millisecond {
			t.Errorf("Resolver.ChunkDelay = %v, want 500ms", cfg.Resolver.ChunkDelay)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		os.Setenv("SCANSTOCK_SERVER_PORT", "9090")
		os.Setenv("SCANSTOCK_CACHE_TTL", "1h")
		os.Setenv("SCANSTOCK_RESOLVER_CONCURRENCY", "3")
		os.Setenv("SCANSTOCK_SOURCES_OPENFOODFACTS_BASE_URL", "https://fr.openfoodfacts.org")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Resolver.Concurrency != 3 {
			t.Errorf("Resolver.Concurrency = %d, want 3", cfg.Resolver.Concurrency)
		}
		if cfg.Sources.OpenFoodFacts.BaseURL != "https://fr.openfoodfacts.org" {
			t.Errorf("Sources.OpenFoodFacts.BaseURL = %s, want https://fr.openfoodfacts.org", cfg.Sources.OpenFoodFacts.BaseURL)
		}
	})

	t.Run("rejects invalid cache type", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		os.Setenv("SCANSTOCK_CACHE_TYPE", "memcached")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want invalid cache type error")
		}
	})

	t.Run("rejects zero concurrency", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		os.Setenv("SCANSTOCK_RESOLVER_CONCURRENCY", "0")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want concurrency error")
		}
	})

	t.Run("rejects configuration with no sources", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		os.Setenv("SCANSTOCK_SOURCES_OPENFOODFACTS_ENABLED", "false")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want no-sources error")
		}
	})
}

func TestValidate_Retailers(t *testing.T) {
	base := func() *Config {
		return &Config{
			Cache:    CacheConfig{Type: "memory"},
			Resolver: ResolverConfig{MaxBatchSize: 100, Concurrency: 5},
			Sources: SourcesConfig{
				OpenFoodFacts: OpenFoodFactsConfig{Enabled: true},
			},
		}
	}

	t.Run("retailer without id", func(t *testing.T) {
		cfg := base()
		cfg.Sources.Retailers = []RetailerConfig{{URLVariants: []string{"https://shop/ean1/{barcode}"}}}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want missing id error")
		}
	})

	t.Run("retailer without url variants", func(t *testing.T) {
		cfg := base()
		cfg.Sources.Retailers = []RetailerConfig{{ID: "hanouty"}}
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want missing url_variants error")
		}
	})

	t.Run("valid retailer", func(t *testing.T) {
		cfg := base()
		cfg.Sources.Retailers = []RetailerConfig{{
			ID:          "hanouty",
			URLVariants: []string{"https://shop/ean1/{barcode}", "https://shop/ean2/{barcode}"},
		}}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})
}
