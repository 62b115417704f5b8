package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/scanstock/backend/internal/domain"
)

// ProductResponse is the Open Food Facts v2 product payload.
// status is 1 when the product exists, 0 when it does not.
type ProductResponse struct {
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Code          string   `json:"code"`
	Product       *Product `json:"product"`
}

// Product carries the subset of Open Food Facts fields the mapper consumes
type Product struct {
	ProductName    string   `json:"product_name"`
	Brands         string   `json:"brands"`
	Quantity       string   `json:"quantity"`
	Categories     string   `json:"categories"`
	CategoriesTags []string `json:"categories_tags"`
	ImageFrontURL  string   `json:"image_front_url"`
	ImageURL       string   `json:"image_url"`

	// Images is the raw gallery: numeric keys ("1", "2", ...) are uploaded
	// photos, named keys ("front_en", ...) are selections pointing at them
	Images map[string]json.RawMessage `json:"images"`
}

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Open Food Facts API client. The public API asks for
// at most ~10 product requests per minute from anonymous clients.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		userAgent:   "ScanStock/1.0 (backend)",
		rateLimiter: rate.NewLimiter(rate.Limit(10.0/60.0), 5),
	}
}

// maxAttempts bounds the retry loop for transient failures
const maxAttempts = 3

// exponentialBackoff returns the sleep before retry attempt n (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))) * time.Millisecond
}

// sleepBackoff waits out the backoff for attempt, honoring cancellation
func sleepBackoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(exponentialBackoff(attempt)):
		return nil
	}
}

// GetProduct fetches the product record for a barcode. A {status:0} payload or
// a 404 yields domain.ErrNoResult; an unparsable body is treated the same way.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*ProductResponse, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	// Retry transient failures; no backoff after the final attempt
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[off] request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
			if attempt < maxAttempts {
				if err := sleepBackoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNoResult
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[off] API error (attempt %d) - status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
			if attempt < maxAttempts {
				if err := sleepBackoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
			continue
		}

		var productResp ProductResponse
		if err := json.Unmarshal(body, &productResp); err != nil {
			log.Printf("[off] JSON decode error for %s: %v", barcode, err)
			return nil, domain.ErrNoResult
		}

		if productResp.Status == 0 || productResp.Product == nil {
			return nil, domain.ErrNoResult
		}

		return &productResp, nil
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
