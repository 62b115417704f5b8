package usecase

import (
	"context"
	"log"
	"time"

	"github.com/scanstock/backend/internal/domain"
	"github.com/scanstock/backend/internal/infrastructure/cache"
)

// ResolverConfig holds configuration for the resolver service
type ResolverConfig struct {
	CacheTTL     time.Duration
	MaxBatchSize int
	Concurrency  int
	ChunkDelay   time.Duration
}

// ResolveOptions tunes one resolution call. SourceIDs selects and orders the
// sources to try (empty means all configured sources in their default
// priority order); SkipCache forces fresh lookups.
type ResolveOptions struct {
	SourceIDs []string
	SkipCache bool
}

// ResolverService resolves barcodes into product metadata by walking an
// ordered fallback chain of sources, memoizing successes in the cache.
type ResolverService struct {
	cache    domain.CacheRepository
	sources  []domain.Source
	cacheTTL time.Duration

	maxBatchSize int
	concurrency  int
	chunkDelay   time.Duration
}

// NewResolverService creates a resolver service. The order of sources is the
// default fallback priority.
func NewResolverService(cacheRepo domain.CacheRepository, sources []domain.Source, config ResolverConfig) *ResolverService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	maxBatchSize := config.MaxBatchSize
	if maxBatchSize == 0 {
		maxBatchSize = 100
	}
	concurrency := config.Concurrency
	if concurrency == 0 {
		concurrency = 5
	}
	chunkDelay := config.ChunkDelay
	if chunkDelay == 0 {
		chunkDelay = 500 * time.Millisecond
	}

	return &ResolverService{
		cache:        cacheRepo,
		sources:      sources,
		cacheTTL:     cacheTTL,
		maxBatchSize: maxBatchSize,
		concurrency:  concurrency,
		chunkDelay:   chunkDelay,
	}
}

// Resolve looks up one barcode. Sources are tried strictly sequentially in
// priority order; the first success wins and is written through to the cache.
// Exhausting every source yields domain.ErrProductNotFound, the expected
// "no data anywhere" outcome.
func (s *ResolverService) Resolve(ctx context.Context, barcode string, opts ResolveOptions) (*domain.ProductInfo, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	selected := s.selectSources(opts.SourceIDs)
	if len(selected) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	// The combined slot short-circuits the whole chain: without it, a fresh
	// per-source entry for a lower-priority source would still cost one live
	// fetch per higher-priority source on every in-TTL resolve.
	combinedKey := cache.ProductKey(barcode, cache.CombinedSlot)
	if !opts.SkipCache {
		if product := s.getFromCache(ctx, combinedKey); product != nil && sourceSelected(product.Source, selected) {
			return product, nil
		}
	}

	for _, src := range selected {
		key := cache.ProductKey(barcode, src.ID())

		if !opts.SkipCache {
			if product := s.getFromCache(ctx, key); product != nil {
				return product, nil
			}
		}

		product, err := src.Lookup(ctx, barcode)
		if err != nil {
			// Misses and transient failures both advance the chain
			log.Printf("[resolver] %s: no result from %s: %v", barcode, src.ID(), err)
			continue
		}

		if err := s.setInCache(ctx, key, product); err != nil {
			log.Printf("[resolver] cache write failed for %s: %v", key, err)
		}
		if err := s.setInCache(ctx, combinedKey, product); err != nil {
			log.Printf("[resolver] cache write failed for %s: %v", combinedKey, err)
		}
		return product, nil
	}

	return nil, domain.ErrProductNotFound
}

// sourceSelected reports whether the product's source is part of the chain
// the caller asked for; a combined-slot hit from an unselected source must
// not satisfy a restricted resolve
func sourceSelected(id string, sources []domain.Source) bool {
	for _, src := range sources {
		if src.ID() == id {
			return true
		}
	}
	return false
}

// selectSources returns the sources to try, in the caller-supplied priority
// order when IDs are given
func (s *ResolverService) selectSources(ids []string) []domain.Source {
	if len(ids) == 0 {
		return s.sources
	}

	byID := make(map[string]domain.Source, len(s.sources))
	for _, src := range s.sources {
		byID[src.ID()] = src
	}

	selected := make([]domain.Source, 0, len(ids))
	for _, id := range ids {
		if src, ok := byID[id]; ok {
			selected = append(selected, src)
		}
	}
	return selected
}

// getFromCache returns a fresh cached product or nil
func (s *ResolverService) getFromCache(ctx context.Context, key string) *domain.ProductInfo {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	if product, ok := value.(*domain.ProductInfo); ok {
		return product
	}
	if dataMap, ok := value.(map[string]interface{}); ok {
		return mapToProductInfo(dataMap)
	}
	return nil
}

// setInCache writes a resolved product through to its (barcode, source) slot
func (s *ResolverService) setInCache(ctx context.Context, key string, product *domain.ProductInfo) error {
	product.CachedAt = time.Now()
	return s.cache.Set(ctx, key, product, s.cacheTTL)
}

// mapToProductInfo converts a map (from the JSON round-trip in the cache) back
// to a ProductInfo
func mapToProductInfo(data map[string]interface{}) *domain.ProductInfo {
	result := &domain.ProductInfo{}

	if v, ok := data["barcode"].(string); ok {
		result.Barcode = v
	}
	if v, ok := data["name"].(string); ok {
		result.Name = v
	}
	if v, ok := data["price"].(string); ok {
		result.Price = v
	}
	if v, ok := data["image"].(string); ok {
		result.Image = v
	}
	if v, ok := data["category"].(string); ok {
		result.Category = v
	}
	if v, ok := data["inStock"].(bool); ok {
		result.InStock = v
	}
	if v, ok := data["quantity"].(string); ok {
		result.Quantity = v
	}
	if v, ok := data["source"].(string); ok {
		result.Source = v
	}
	if v, ok := data["cachedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			result.CachedAt = t
		}
	}

	return result
}
