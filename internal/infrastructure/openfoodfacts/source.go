package openfoodfacts

import (
	"context"

	"github.com/scanstock/backend/internal/domain"
)

// SourceID identifies the Open Food Facts source in cache keys and results
const SourceID = "openfoodfacts"

// Source adapts the API client to the resolver's fallback chain.
// It implements domain.Source.
type Source struct {
	client *Client
}

// NewSource wraps an Open Food Facts client as a resolution source
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// ID returns the source identifier
func (s *Source) ID() string {
	return SourceID
}

// Label returns the human-readable source name
func (s *Source) Label() string {
	return "Open Food Facts"
}

// Lookup performs one typed API request and maps the structured response.
// A sentinel-name mapping counts as no result.
func (s *Source) Lookup(ctx context.Context, barcode string) (*domain.ProductInfo, error) {
	resp, err := s.client.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	product := MapToProductInfo(barcode, resp)
	if domain.IsSentinelName(product.Name, barcode) {
		return nil, domain.ErrNoResult
	}

	product.Source = SourceID
	return product, nil
}
