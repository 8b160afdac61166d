package models

import "time"

// Extraction provenance values carried in Product.Source.
const (
	SourceScriptJSON = "script_json"
	SourceDOM        = "dom_selector"
	SourceRegex      = "regex_extraction"
)

// Product is one listing extracted from a retailer search page. Records are
// created fresh on every extraction and never mutated in place.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Price           float64   `json:"price"`
	OriginalPrice   float64   `json:"original_price,omitempty"`
	DiscountPercent float64   `json:"discount_percent,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	RatingCount     int       `json:"rating_count,omitempty"`
	ProductURL      string    `json:"product_url"`
	ImageURL        string    `json:"image_url,omitempty"`
	Platform        string    `json:"platform"`
	Source          string    `json:"source"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// SearchFilters are applied as a post-filter over the merged result set,
// except where a platform's URL grammar accepts price-range parameters.
type SearchFilters struct {
	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	Category string  `json:"category,omitempty"`
	SortBy   string  `json:"sort_by,omitempty"`
}

// Sort orders accepted in SearchFilters.SortBy.
const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRating     = "rating_desc"
	SortPopularity = "popularity_desc"
	SortNewest     = "date_desc"
)

// SearchRequest is the input contract consumed from callers (CLI, MCP, or
// an embedding application).
type SearchRequest struct {
	Query        string        `json:"query"`
	Platforms    []string      `json:"platforms"` // empty means all registered
	Filters      SearchFilters `json:"filters"`
	MaxPages     int           `json:"max_pages"`
	UseCache     bool          `json:"use_cache"`
	ForceRefresh bool          `json:"force_refresh"`
}

// SearchResponse is the output contract. Success is false only on total
// failure; per-platform degradation is reported through Errors.
type SearchResponse struct {
	Success bool      `json:"success"`
	Results []Product `json:"results"`
	Count   int       `json:"count"`
	Errors  []string  `json:"errors,omitempty"`
}
