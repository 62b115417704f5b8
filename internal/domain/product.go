package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default values used when a field cannot be extracted from a source
const (
	DefaultPrice     = "0.00"
	DefaultCategory  = "Unknown"
	PlaceholderImage = "https://via.placeholder.com/150?text=No+Image"
)

// ProductInfo is the canonical product record produced by a successful source lookup.
// It is transient: the core caches and returns it, durable storage is the caller's job.
type ProductInfo struct {
	Barcode  string    `json:"barcode"`
	Name     string    `json:"name"`
	Price    string    `json:"price"` // decimal string, e.g. "12.50"
	Image    string    `json:"image"`
	Category string    `json:"category,omitempty"`
	InStock  bool      `json:"inStock"`
	Quantity string    `json:"quantity,omitempty"`
	Source   string    `json:"source"` // source ID or "cache"
	CachedAt time.Time `json:"cachedAt,omitempty"`
}

// SentinelName builds the placeholder name that marks extraction failure for a
// barcode. It must never be surfaced as a real product name.
func SentinelName(barcode string) string {
	return fmt.Sprintf("Product %s", barcode)
}

// IsSentinelName reports whether name is the extraction-failure placeholder.
func IsSentinelName(name, barcode string) bool {
	return strings.TrimSpace(name) == "" || name == SentinelName(barcode)
}

// BatchItemResult is the per-barcode outcome of a batch resolution
type BatchItemResult struct {
	Barcode string       `json:"barcode"`
	Success bool         `json:"success"`
	Product *ProductInfo `json:"product,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// BatchReport summarizes one batch resolution. Results preserve input order.
type BatchReport struct {
	Total    int               `json:"total"`
	Found    int               `json:"found"`
	NotFound int               `json:"notFound"`
	Results  []BatchItemResult `json:"results"`
}
