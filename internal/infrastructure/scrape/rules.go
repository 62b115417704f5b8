package scrape

import (
	"regexp"
	"strings"
)

// Rule is one ordered extraction step for a field: a pattern, the capture group
// holding the value, and an optional validator. The first rule producing a
// non-empty validated match wins.
type Rule struct {
	Pattern  *regexp.Regexp
	Group    int
	Validate func(string) bool
}

// RuleSet holds the ordered rule ladders for every product field
type RuleSet struct {
	Name       []Rule
	Price      []Rule
	Image      []Rule
	Category   []Rule
	OutOfStock []Rule
}

// nameBlacklist contains substrings that mark a candidate name as coming from an
// error or search page rather than a product page
var nameBlacklist = []string{
	"404",
	"not found",
	"page non trouvée",
	"aucun résultat",
	"aucun produit",
	"nothing found",
	"no results",
	"search results",
	"résultats de recherche",
	"vous avez cherché",
}

// validName rejects candidates that contain error-page or search-page markers.
// Such a match came from the wrong part of the page.
func validName(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, marker := range nameBlacklist {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// DefaultRules returns the extraction ladders shared by the retailer sources.
// Patterns cover the common WooCommerce/OpenCart page shapes: structured meta
// tags first, then on-page markup, then progressively looser fallbacks.
func DefaultRules() RuleSet {
	return RuleSet{
		Name: []Rule{
			{Pattern: regexp.MustCompile(`(?is)<h1[^>]*class="[^"]*product[_-]title[^"]*"[^>]*>(.*?)</h1>`), Group: 1, Validate: validName},
			{Pattern: regexp.MustCompile(`(?is)<h1[^>]*itemprop="name"[^>]*>(.*?)</h1>`), Group: 1, Validate: validName},
			{Pattern: regexp.MustCompile(`(?i)<meta\s+property="og:title"\s+content="([^"]+)"`), Group: 1, Validate: validName},
			{Pattern: regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`), Group: 1, Validate: validName},
			{Pattern: regexp.MustCompile(`(?is)<title>([^<|–-]+)`), Group: 1, Validate: validName},
		},
		Price: []Rule{
			{Pattern: regexp.MustCompile(`(?i)<meta\s+property="product:price:amount"\s+content="([^"]+)"`), Group: 1},
			{Pattern: regexp.MustCompile(`(?i)<[^>]*itemprop="price"[^>]*content="([^"]+)"`), Group: 1},
			{Pattern: regexp.MustCompile(`(?is)<span[^>]*class="[^"]*woocommerce-Price-amount[^"]*"[^>]*>(.*?)</span>`), Group: 1},
			{Pattern: regexp.MustCompile(`(?is)<(?:span|p|div)[^>]*class="[^"]*price[^"]*"[^>]*>(.*?)</(?:span|p|div)>`), Group: 1},
		},
		Image: []Rule{
			{Pattern: regexp.MustCompile(`(?i)<meta\s+property="og:image"\s+content="([^"]+)"`), Group: 1},
			{Pattern: regexp.MustCompile(`(?i)<img[^>]*class="[^"]*(?:wp-post-image|product[_-]image)[^"]*"[^>]*\bsrc="([^"]+)"`), Group: 1},
			{Pattern: regexp.MustCompile(`(?i)<img[^>]*itemprop="image"[^>]*\bsrc="([^"]+)"`), Group: 1},
		},
		Category: []Rule{
			{Pattern: regexp.MustCompile(`(?is)<span[^>]*class="[^"]*posted_in[^"]*"[^>]*>.*?<a[^>]*>(.*?)</a>`), Group: 1},
			{Pattern: regexp.MustCompile(`(?is)<a[^>]*rel="tag"[^>]*>(.*?)</a>`), Group: 1},
			{Pattern: regexp.MustCompile(`(?is)<nav[^>]*class="[^"]*breadcrumb[^"]*"[^>]*>.*<a[^>]*>(.*?)</a>`), Group: 1},
		},
		OutOfStock: []Rule{
			{Pattern: regexp.MustCompile(`(?i)class="[^"]*out[_-]of[_-]stock[^"]*"`)},
			{Pattern: regexp.MustCompile(`(?i)out of stock`)},
			{Pattern: regexp.MustCompile(`(?i)rupture de stock`)},
			{Pattern: regexp.MustCompile(`(?i)épuisé`)},
			{Pattern: regexp.MustCompile(`(?i)indisponible`)},
		},
	}
}
