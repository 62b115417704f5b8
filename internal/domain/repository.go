package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Source is one external provider of product data (scraped retailer page or JSON API).
// Lookup returns ErrNoResult when the provider has no data for the barcode and
// ErrFetchFailed for transient transport problems; both advance the fallback chain.
type Source interface {
	ID() string
	Label() string
	Lookup(ctx context.Context, barcode string) (*ProductInfo, error)
}
