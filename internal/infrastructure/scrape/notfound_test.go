package scrape

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundPage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{
			name:   "http 404 regardless of body",
			status: http.StatusNotFound,
			body:   `<html><body><h1 class="product_title">Real product</h1></body></html>`,
			want:   true,
		},
		{
			name:   "wordpress 404 template with 200 status",
			status: http.StatusOK,
			body:   `<html><body><h2 class="entry-title">404 &#8211; Page not found</h2></body></html>`,
			want:   true,
		},
		{
			name:   "entry-title 404 wins over incidental product markup",
			status: http.StatusOK,
			body: `<html><body>
				<h2 class="entry-title">404 Oups !</h2>
				<div class="product"><h3>Produits populaires</h3></div>
			</body></html>`,
			want: true,
		},
		{
			name:   "title tag soft 404",
			status: http.StatusOK,
			body:   `<html><head><title>404 Not Found</title></head><body></body></html>`,
			want:   true,
		},
		{
			name:   "no results banner",
			status: http.StatusOK,
			body:   `<html><body><p class="woocommerce-info">No products were found matching your selection.</p></body></html>`,
			want:   true,
		},
		{
			name:   "french no results banner",
			status: http.StatusOK,
			body:   `<html><body><div class="alert">Aucun résultat pour votre recherche.</div></body></html>`,
			want:   true,
		},
		{
			name:   "search page without product markup",
			status: http.StatusOK,
			body:   `<html><body><div class="search-results"><ul></ul></div></body></html>`,
			want:   true,
		},
		{
			name:   "search page with product markup is a results page",
			status: http.StatusOK,
			body: `<html><body><div class="search-results">
				<div class="product"><h2 class="product_title">Lait Centrale 1L</h2></div>
			</div></body></html>`,
			want: false,
		},
		{
			name:   "normal product page",
			status: http.StatusOK,
			body: `<html><head><title>Sidi Ali 1.5L | Shop</title></head><body>
				<h1 class="product_title">Sidi Ali 1.5L</h1>
				<span class="price">4,00 DH</span>
			</body></html>`,
			want: false,
		},
		{
			name:   "product name containing digits is not an error page",
			status: http.StatusOK,
			body:   `<html><body><h1 class="product_title">Biscuits 404g family pack</h1></body></html>`,
			want:   false,
		},
		{
			name:   "empty body with 200",
			status: http.StatusOK,
			body:   "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFoundPage(tt.status, tt.body))
		})
	}
}
