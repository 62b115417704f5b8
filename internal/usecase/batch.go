package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scanstock/backend/internal/domain"
)

// ResolveBatch resolves many barcodes. Input is chunked by the configured
// concurrency limit: barcodes within a chunk resolve concurrently, chunks run
// sequentially with a short delay to stay polite to upstream sources. One
// barcode failing or coming up empty never aborts the batch; the report keeps
// results in input order.
func (s *ResolverService) ResolveBatch(ctx context.Context, barcodes []string, opts ResolveOptions) (*domain.BatchReport, error) {
	if len(barcodes) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if len(barcodes) > s.maxBatchSize {
		return nil, domain.ErrBatchTooLarge
	}

	results := make([]domain.BatchItemResult, len(barcodes))

	for start := 0; start < len(barcodes); start += s.concurrency {
		end := start + s.concurrency
		if end > len(barcodes) {
			end = len(barcodes)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = s.resolveItem(gctx, barcodes[i], opts)
				return nil
			})
		}
		// Workers never return errors; Wait only joins the chunk
		_ = g.Wait()

		if end < len(barcodes) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.chunkDelay):
			}
		}
	}

	report := &domain.BatchReport{
		Total:   len(barcodes),
		Results: results,
	}
	for _, item := range results {
		if item.Success {
			report.Found++
		} else {
			report.NotFound++
		}
	}

	log.Printf("[resolver] batch done: %d total, %d found, %d not found", report.Total, report.Found, report.NotFound)
	return report, nil
}

// resolveItem runs one barcode through the fallback chain and normalizes the
// outcome into a BatchItemResult
func (s *ResolverService) resolveItem(ctx context.Context, barcode string, opts ResolveOptions) domain.BatchItemResult {
	product, err := s.Resolve(ctx, barcode, opts)
	if err != nil {
		result := domain.BatchItemResult{Barcode: barcode}
		if errors.Is(err, domain.ErrProductNotFound) {
			result.Error = "not found"
		} else {
			result.Error = err.Error()
		}
		return result
	}

	return domain.BatchItemResult{
		Barcode: barcode,
		Success: true,
		Product: product,
	}
}
