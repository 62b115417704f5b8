package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scanstock/backend/internal/domain"
	"github.com/scanstock/backend/internal/usecase"
)

// ProductResolver is the slice of the resolver service the handlers need
type ProductResolver interface {
	Resolve(ctx context.Context, barcode string, opts usecase.ResolveOptions) (*domain.ProductInfo, error)
	ResolveBatch(ctx context.Context, barcodes []string, opts usecase.ResolveOptions) (*domain.BatchReport, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver ProductResolver
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver ProductResolver) *Handler {
	return &Handler{resolver: resolver}
}

// batchRequest is the POST body for batch resolution
type batchRequest struct {
	Barcodes []string `json:"barcodes" binding:"required"`
	Sources  []string `json:"sources,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scanstock-backend",
		"version": "1.0.0",
	})
}

// GetProduct resolves a single barcode.
// GET /api/v1/products/:barcode?sources=a,b&refresh=true
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	opts := usecase.ResolveOptions{
		SkipCache: c.Query("refresh") == "true",
	}
	if sources := c.Query("sources"); sources != "" {
		opts.SourceIDs = strings.Split(sources, ",")
	}

	product, err := h.resolver.Resolve(c.Request.Context(), barcode, opts)
	if err != nil {
		h.writeError(c, barcode, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ResolveBatch resolves up to the configured maximum of barcodes in one call.
// POST /api/v1/products/batch
func (h *Handler) ResolveBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	opts := usecase.ResolveOptions{
		SourceIDs: req.Sources,
		SkipCache: req.Refresh,
	}

	report, err := h.resolver.ResolveBatch(c.Request.Context(), req.Barcodes, opts)
	if err != nil {
		h.writeError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// writeError maps domain errors to HTTP responses. "Not found" is an expected
// outcome and must stay distinguishable from an internal malfunction.
func (h *Handler) writeError(c *gin.Context, barcode string, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "product not found in any source",
			"barcode":  barcode,
			"notFound": true,
		})
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFetchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
