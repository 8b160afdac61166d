package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

func pinnedNormalizer(platform, base string) *Normalizer {
	n := NewNormalizer(platform, base)
	n.Now = func() time.Time { return time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC) }
	n.NewID = func() string { return "fixed-id" }
	return n
}

func TestNormalizeBasic(t *testing.T) {
	n := pinnedNormalizer("zalora", "https://www.zalora.com.ph")

	products, dropped := n.Normalize([]Raw{
		{
			Title:         "Nike Air Max 90",
			Price:         "₱5,495.00",
			OriginalPrice: "₱6,995.00",
			Rating:        "4.5",
			RatingCount:   "(231)",
			ProductURL:    "/p/nike-air-max-90-white-12345.html",
			ImageURL:      "//static.zalora.com.ph/p/nike-1.jpg",
		},
	}, models.SourceDOM)

	require.Len(t, products, 1)
	assert.Equal(t, 0, dropped)

	p := products[0]
	assert.Equal(t, "zalora:nike-air-max-90-white-12345", p.ID)
	assert.Equal(t, "Nike Air Max 90", p.Title)
	assert.Equal(t, 5495.00, p.Price)
	assert.Equal(t, 6995.00, p.OriginalPrice)
	assert.Equal(t, 21.0, p.DiscountPercent)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 231, p.RatingCount)
	assert.Equal(t, "https://www.zalora.com.ph/p/nike-air-max-90-white-12345.html", p.ProductURL)
	assert.Equal(t, "https://static.zalora.com.ph/p/nike-1.jpg", p.ImageURL)
	assert.Equal(t, "zalora", p.Platform)
	assert.Equal(t, models.SourceDOM, p.Source)
	assert.Equal(t, time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC), p.ScrapedAt)
}

func TestNormalizeIdempotent(t *testing.T) {
	n := pinnedNormalizer("lazada", "https://www.lazada.com.ph")
	raws := []Raw{
		{Title: "USB-C Hub", Price: "PHP 899", ProductURL: "/products/usb-c-hub-i123.html"},
		{Title: "Desk Lamp", Price: "₱450", ProductURL: "/products/desk-lamp-i456.html"},
	}

	first, _ := n.Normalize(raws, models.SourceScriptJSON)
	second, _ := n.Normalize(raws, models.SourceScriptJSON)
	assert.Equal(t, first, second)
}

func TestNormalizeDropsMalformed(t *testing.T) {
	n := pinnedNormalizer("shein", "https://ph.shein.com")

	products, dropped := n.Normalize([]Raw{
		{Title: "Good Item", Price: "₱199", ProductURL: "/good-item-p-1.html"},
		{Title: "No URL", Price: "₱100"},
		{Price: "₱100", ProductURL: "://bad"},
		{Title: "No Price", ProductURL: "/no-price-p-2.html", Price: "sold out"},
		// duplicate of the first by URL
		{Title: "Good Item Again", Price: "₱199", ProductURL: "/good-item-p-1.html"},
	}, models.SourceRegex)

	require.Len(t, products, 1)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, "Good Item", products[0].Title)
}

func TestNormalizeTitleFromSlug(t *testing.T) {
	n := pinnedNormalizer("shein", "https://ph.shein.com")

	products, _ := n.Normalize([]Raw{
		{Price: "₱349", ProductURL: "/Floral-Print-Summer-Dress-p-9981.html?src=search"},
	}, models.SourceRegex)

	require.Len(t, products, 1)
	assert.Equal(t, "Floral Print Summer Dress p 9981", products[0].Title)
}

func TestNormalizeExplicitDiscountWins(t *testing.T) {
	n := pinnedNormalizer("lazada", "https://www.lazada.com.ph")

	products, _ := n.Normalize([]Raw{
		{
			Title:         "Blender",
			Price:         "₱750",
			OriginalPrice: "₱1,000",
			Discount:      "-30%",
			ProductURL:    "/products/blender-i9.html",
		},
	}, models.SourceScriptJSON)

	require.Len(t, products, 1)
	assert.Equal(t, 30.0, products[0].DiscountPercent)
}

func TestResolveURL(t *testing.T) {
	base := "https://www.lazada.com.ph"
	tests := []struct {
		name string
		href string
		want string
	}{
		{"absolute https", "https://other.example/x", "https://other.example/x"},
		{"absolute http", "http://other.example/x", "http://other.example/x"},
		{"protocol relative", "//cdn.example/img.jpg", "https://cdn.example/img.jpg"},
		{"root relative", "/products/x.html", "https://www.lazada.com.ph/products/x.html"},
		{"empty", "", ""},
		{"unparseable", "://nope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(base, tt.href))
		})
	}
}
