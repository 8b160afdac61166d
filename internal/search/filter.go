package search

import (
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// ApplyFilters applies SearchFilters as a post-filter over the merged
// result set. Platforms whose URL grammar accepts price ranges also push
// them into the scrape; filtering again here is harmless and covers the
// platforms that cannot.
func ApplyFilters(products []models.Product, f models.SearchFilters) []models.Product {
	if f.MinPrice <= 0 && f.MaxPrice <= 0 && f.Brand == "" && f.Category == "" {
		return products
	}
	kept := products[:0:0]
	for _, p := range products {
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.Brand != "" && !containsFold(p.Title, f.Brand) {
			continue
		}
		if f.Category != "" && !containsFold(p.Title, f.Category) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
