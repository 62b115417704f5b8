package scrape

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noResultsBanners are banner texts retailers show on friendly "not found" pages.
// Matched case-insensitively against error/info containers and headings.
var noResultsBanners = []string{
	"no products were found",
	"no results found",
	"nothing found",
	"aucun produit ne correspond",
	"aucun résultat",
	"rien trouvé",
}

// IsNotFoundPage decides whether a fetched response represents "no such product".
// Many retailer sites answer HTTP 200 with a friendly error page (soft-404), so
// the body is inspected in addition to the status code.
func IsNotFoundPage(statusCode int, body string) bool {
	if statusCode == http.StatusNotFound {
		return true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// Unparsable body: fall back to plain text signatures
		return containsNoResultsBanner(strings.ToLower(body))
	}

	// Error-page headings. The .entry-title variant is how WordPress themes
	// render their 404 template, regardless of the HTTP status.
	notFound := false
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if strings.Contains(text, "404") {
			if sel.HasClass("entry-title") || strings.Contains(text, "not found") || strings.Contains(text, "page non trouvée") {
				notFound = true
				return false
			}
		}
		return true
	})
	if notFound {
		return true
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	if strings.Contains(title, "404") && strings.Contains(title, "not found") {
		return true
	}

	// "no results" banners
	bannerText := strings.ToLower(doc.Find(".woocommerce-info, .woocommerce-no-products-found, .no-results, .not-found, .alert").Text())
	if containsNoResultsBanner(bannerText) {
		return true
	}

	// Search-page markup with no product markup present
	if doc.Find("body.search-results, .search-results, .search-no-results").Length() > 0 &&
		doc.Find(".product, .product_title, [itemprop='name']").Length() == 0 {
		return true
	}

	return false
}

func containsNoResultsBanner(lower string) bool {
	for _, banner := range noResultsBanners {
		if strings.Contains(lower, banner) {
			return true
		}
	}
	return false
}
