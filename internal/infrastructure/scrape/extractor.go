package scrape

import (
	"html"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/scanstock/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	markupTagRegex      = regexp.MustCompile(`<[^>]+>`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	priceTokenRegex     = regexp.MustCompile(`\d+[.,]\d+`)
)

// Extractor turns raw HTML into a best-effort ProductInfo using ordered rule
// ladders. It never fails: a page where no name can be resolved yields the
// sentinel name, which callers must treat as "no product".
type Extractor struct {
	rules RuleSet
}

// NewExtractor creates an extractor with the given rule set
func NewExtractor(rules RuleSet) *Extractor {
	return &Extractor{rules: rules}
}

// Extract applies the rule ladders to body and fills unresolved fields with
// their documented defaults.
func (e *Extractor) Extract(barcode, body string) *domain.ProductInfo {
	product := &domain.ProductInfo{
		Barcode:  barcode,
		Name:     domain.SentinelName(barcode),
		Price:    domain.DefaultPrice,
		Image:    domain.PlaceholderImage,
		Category: domain.DefaultCategory,
		InStock:  true,
	}

	if name := applyRules(body, e.rules.Name); name != "" {
		product.Name = name
	}
	if raw := applyRules(body, e.rules.Price); raw != "" {
		if price := NormalizePrice(raw); price != "" {
			product.Price = price
		}
	}
	if image := applyRules(body, e.rules.Image); image != "" {
		product.Image = image
	}
	if category := applyRules(body, e.rules.Category); category != "" {
		product.Category = category
	}

	// InStock stays true unless the page carries contrary evidence
	for _, rule := range e.rules.OutOfStock {
		if rule.Pattern.MatchString(body) {
			product.InStock = false
			break
		}
	}

	return product
}

// applyRules tries each rule in order and returns the first non-empty,
// validated match, cleaned of markup and entity references.
func applyRules(body string, rules []Rule) string {
	for _, rule := range rules {
		match := rule.Pattern.FindStringSubmatch(body)
		if match == nil {
			continue
		}

		group := rule.Group
		if group >= len(match) {
			continue
		}
		candidate := CleanText(match[group])
		if candidate == "" {
			continue
		}
		if rule.Validate != nil && !rule.Validate(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

// CleanText strips markup, decodes HTML entity references (named and numeric),
// and collapses whitespace.
func CleanText(s string) string {
	s = markupTagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizePrice extracts the first decimal token from raw price text and
// rewrites a comma decimal separator to a dot ("12,50" -> "12.50"). The result
// is always a valid decimal string, so re-applying the normalizer is a no-op.
// Returns "" when no price token is present.
func NormalizePrice(raw string) string {
	cleaned := CleanText(raw)

	token := priceTokenRegex.FindString(cleaned)
	if token == "" {
		return ""
	}
	token = strings.ReplaceAll(token, ",", ".")

	if _, err := decimal.NewFromString(token); err != nil {
		return ""
	}
	return token
}
