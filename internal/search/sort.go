package search

import (
	"sort"
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// Sort orders the merged result set in place. Unknown or empty sortBy
// leaves the merge order untouched.
func Sort(products []models.Product, sortBy string) {
	switch sortBy {
	case models.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case models.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case models.SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Rating != products[j].Rating {
				return products[i].Rating > products[j].Rating
			}
			return products[i].RatingCount > products[j].RatingCount
		})
	case models.SortPopularity:
		sort.SliceStable(products, func(i, j int) bool {
			return popularity(products[i]) > popularity(products[j])
		})
	case models.SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return newness(products[i]) > newness(products[j])
		})
	}
}

// popularity proxies demand from review volume weighted by rating; no
// retailer exposes a comparable sales figure across platforms.
func popularity(p models.Product) float64 {
	rating := p.Rating
	if rating <= 0 {
		rating = 2.5 // unrated products sort below any rated ones at equal volume
	}
	return float64(p.RatingCount) * rating
}

// newness is an acknowledged approximation: listings have no timestamps, so
// a "new" keyword in the title and a low review count stand in for recency.
func newness(p models.Product) float64 {
	score := -float64(p.RatingCount)
	if strings.Contains(strings.ToLower(p.Title), "new") {
		score += 1e9
	}
	return score
}
