package domain

import "errors"

var (
	// ErrProductNotFound is returned when every configured source has been exhausted
	// without a result. It is an expected outcome, not a pipeline failure.
	ErrProductNotFound = errors.New("product not found in any source")

	// ErrNoResult is returned by a single source that has no data for a barcode
	// (not-found page, empty API payload, or an unparsable body)
	ErrNoResult = errors.New("source returned no product data")

	// ErrFetchFailed is returned when an outbound request fails for transient
	// reasons (network error, timeout). Callers treat it like a source miss.
	ErrFetchFailed = errors.New("fetch from source failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrBatchTooLarge is returned when a batch exceeds the configured size cap
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
