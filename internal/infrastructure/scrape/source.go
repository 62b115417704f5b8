package scrape

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/scanstock/backend/internal/domain"
)

// maxBodyBytes caps how much of a retailer page is read per request
const maxBodyBytes = 2 << 20

// defaultUserAgents is the fallback pool used when a source configures none
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// SourceConfig declares one retailer scrape source. URL variants contain a
// {barcode} placeholder; some retailers expose several endpoint shapes for the
// same item. MissThreshold stops a lookup after that many confirmed misses
// (0 means exhaust every variant/agent combination).
type SourceConfig struct {
	ID            string
	Label         string
	URLVariants   []string
	UserAgents    []string
	MissThreshold int
}

// Source scrapes one retailer. It implements domain.Source.
type Source struct {
	cfg        SourceConfig
	httpClient *http.Client
	extractor  *Extractor
	limiter    *rate.Limiter
	misses     atomic.Int64
}

// NewSource creates a retailer scrape source with a bounded-timeout HTTP
// client and a per-source request rate limit.
func NewSource(cfg SourceConfig, extractor *Extractor, timeout time.Duration, rps float64) *Source {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if rps == 0 {
		rps = 1
	}

	return &Source{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		extractor: extractor,
		limiter:   rate.NewLimiter(rate.Limit(rps), 3),
	}
}

// ID returns the source identifier used in cache keys and ProductInfo.Source
func (s *Source) ID() string {
	return s.cfg.ID
}

// Label returns the human-readable source name
func (s *Source) Label() string {
	if s.cfg.Label != "" {
		return s.cfg.Label
	}
	return s.cfg.ID
}

// Misses returns the total confirmed not-found responses seen by this source
func (s *Source) Misses() int64 {
	return s.misses.Load()
}

// Lookup fetches and parses the product page for barcode. It iterates URL
// variants outer and User-Agents inner, one GET per combination; the first
// successful parse wins. Transient fetch errors and not-found pages both move
// on to the next combination.
func (s *Source) Lookup(ctx context.Context, barcode string) (*domain.ProductInfo, error) {
	agents := s.cfg.UserAgents
	if len(agents) == 0 {
		agents = defaultUserAgents
	}

	misses := 0
	for _, variant := range s.cfg.URLVariants {
		pageURL := strings.ReplaceAll(variant, "{barcode}", url.PathEscape(barcode))

		for _, agent := range agents {
			if s.cfg.MissThreshold > 0 && misses >= s.cfg.MissThreshold {
				log.Printf("[scrape:%s] miss threshold %d reached for %s", s.cfg.ID, s.cfg.MissThreshold, barcode)
				return nil, domain.ErrNoResult
			}

			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
			}

			status, body, err := s.fetch(ctx, pageURL, agent)
			if err != nil {
				// Transient failure: try the next combination
				log.Printf("[scrape:%s] fetch error for %s: %v", s.cfg.ID, pageURL, err)
				continue
			}

			if IsNotFoundPage(status, body) {
				misses++
				s.misses.Add(1)
				continue
			}
			if status != http.StatusOK {
				misses++
				s.misses.Add(1)
				continue
			}

			product := s.extractor.Extract(barcode, body)
			if domain.IsSentinelName(product.Name, barcode) {
				// Page fetched but nothing extractable on it
				misses++
				s.misses.Add(1)
				continue
			}

			product.Source = s.cfg.ID
			return product, nil
		}
	}

	return nil, domain.ErrNoResult
}

// fetch issues one GET with browser-like headers and the given User-Agent
func (s *Source) fetch(ctx context.Context, pageURL, agent string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", agent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,fr;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	return resp.StatusCode, string(body), nil
}
