package main

import (
	"fmt"
	"log"
	"os"

	"github.com/scanstock/backend/config"
	httpDelivery "github.com/scanstock/backend/internal/delivery/http"
	"github.com/scanstock/backend/internal/domain"
	"github.com/scanstock/backend/internal/infrastructure/cache"
	"github.com/scanstock/backend/internal/infrastructure/openfoodfacts"
	"github.com/scanstock/backend/internal/infrastructure/scrape"
	"github.com/scanstock/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ScanStock Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	sources := buildSources(cfg)
	if len(sources) == 0 {
		log.Fatalf("No product sources configured")
	}
	for i, src := range sources {
		log.Printf("Source %d: %s (%s)", i+1, src.ID(), src.Label())
	}

	// Initialize usecase layer
	resolver := usecase.NewResolverService(
		memoryCache,
		sources,
		usecase.ResolverConfig{
			CacheTTL:     cfg.Cache.TTL,
			MaxBatchSize: cfg.Resolver.MaxBatchSize,
			Concurrency:  cfg.Resolver.Concurrency,
			ChunkDelay:   cfg.Resolver.ChunkDelay,
		},
	)

	log.Printf("Resolver: max batch=%d, concurrency=%d, chunk delay=%s",
		cfg.Resolver.MaxBatchSize,
		cfg.Resolver.Concurrency,
		cfg.Resolver.ChunkDelay)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildSources assembles the fallback chain in priority order: scraped
// retailers as configured, then Open Food Facts when enabled.
func buildSources(cfg *config.Config) []domain.Source {
	extractor := scrape.NewExtractor(scrape.DefaultRules())

	var sources []domain.Source
	for _, retailer := range cfg.Sources.Retailers {
		userAgents := retailer.UserAgents
		if len(userAgents) == 0 {
			userAgents = cfg.Sources.UserAgents
		}
		sources = append(sources, scrape.NewSource(
			scrape.SourceConfig{
				ID:            retailer.ID,
				Label:         retailer.Label,
				URLVariants:   retailer.URLVariants,
				UserAgents:    userAgents,
				MissThreshold: retailer.MissThreshold,
			},
			extractor,
			cfg.Sources.FetchTimeout,
			cfg.Sources.RequestsPerSecond,
		))
	}

	if cfg.Sources.OpenFoodFacts.Enabled {
		client := openfoodfacts.NewClient(cfg.Sources.OpenFoodFacts.BaseURL, cfg.Sources.FetchTimeout)
		sources = append(sources, openfoodfacts.NewSource(client))
	}

	return sources
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
