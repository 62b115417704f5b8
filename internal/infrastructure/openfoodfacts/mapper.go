package openfoodfacts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/scanstock/backend/internal/domain"
)

// imageBaseURL is the Open Food Facts static image host
const imageBaseURL = "https://images.openfoodfacts.org/images/products"

// MapToProductInfo converts an Open Food Facts payload to the domain model.
// The composed name is product name + quantity + brand when each adds new
// information; the image is chosen front > generic > first gallery photo >
// placeholder.
func MapToProductInfo(barcode string, resp *ProductResponse) *domain.ProductInfo {
	p := resp.Product

	name := composeName(p)
	if name == "" {
		name = domain.SentinelName(barcode)
	}

	return &domain.ProductInfo{
		Barcode:  barcode,
		Name:     name,
		Price:    domain.DefaultPrice, // Open Food Facts carries no pricing
		Image:    chooseImage(barcode, p),
		Category: chooseCategory(p),
		InStock:  true,
		Quantity: strings.TrimSpace(p.Quantity),
	}
}

// composeName joins product name, quantity and first brand, skipping parts
// already present in the name
func composeName(p *Product) string {
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		return ""
	}

	parts := []string{name}

	if quantity := strings.TrimSpace(p.Quantity); quantity != "" && !containsFold(name, quantity) {
		parts = append(parts, quantity)
	}

	if brand := firstSegment(p.Brands); brand != "" && !containsFold(name, brand) {
		parts = append(parts, brand)
	}

	return strings.Join(parts, " - ")
}

// chooseImage picks the best available product image by priority
func chooseImage(barcode string, p *Product) string {
	for _, candidate := range []string{p.ImageFrontURL, p.ImageURL} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	if gallery := firstGalleryImage(barcode, p.Images); gallery != "" {
		return gallery
	}
	return domain.PlaceholderImage
}

// firstGalleryImage builds the URL of the lowest-numbered uploaded photo.
// Gallery keys mix photo numbers with selection names ("front_en"); only the
// numeric ones address files on the image host.
func firstGalleryImage(barcode string, images map[string]json.RawMessage) string {
	lowest := 0
	for key := range images {
		n, err := strconv.Atoi(key)
		if err != nil || n <= 0 {
			continue
		}
		if lowest == 0 || n < lowest {
			lowest = n
		}
	}
	if lowest == 0 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%d.400.jpg", imageBaseURL, imageFolder(barcode), lowest)
}

// imageFolder returns the image host directory for a barcode: codes longer
// than 8 digits are split 3/3/3/rest, shorter codes are used as-is
func imageFolder(barcode string) string {
	if len(barcode) <= 8 {
		return barcode
	}
	return strings.Join([]string{barcode[0:3], barcode[3:6], barcode[6:9], barcode[9:]}, "/")
}

// chooseCategory returns the first human-readable category, preferring the
// plain categories list over language-prefixed tags ("en:snacks")
func chooseCategory(p *Product) string {
	if category := firstSegment(p.Categories); category != "" {
		return category
	}
	for _, tag := range p.CategoriesTags {
		tag = strings.TrimSpace(tag)
		if idx := strings.Index(tag, ":"); idx >= 0 {
			tag = tag[idx+1:]
		}
		if tag != "" {
			return tag
		}
	}
	return domain.DefaultCategory
}

// firstSegment returns the first entry of a comma-separated list
func firstSegment(list string) string {
	first, _, _ := strings.Cut(list, ",")
	return strings.TrimSpace(first)
}

// containsFold reports whether s contains substr, case-insensitively
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
