// Package extract turns fetched retailer search pages into raw product
// records. A fixed chain of strategies is tried in priority order: embedded
// script JSON, then CSS selector sets, then regex scanning over the raw HTML.
// Only the per-site Profile varies between retailers; the strategies are
// shared.
package extract

import (
	"errors"
	"regexp"
)

// ErrEmpty is returned when every strategy ran but none produced a
// plausible product.
var ErrEmpty = errors.New("no products extracted")

// Page is a fetched search-result page handed to the strategy chain.
type Page struct {
	URL  string
	HTML string
}

// Raw is the untyped field bag a strategy produces per product. Values are
// kept as the page presented them; the Normalizer owns all coercion.
type Raw struct {
	ID            string
	Title         string
	Price         string
	OriginalPrice string
	Discount      string
	Rating        string
	RatingCount   string
	ProductURL    string
	ImageURL      string
}

// FieldSelector is one CSS selector candidate for a semantic field. An empty
// Attr means the element's text content.
type FieldSelector struct {
	Selector string
	Attr     string
}

// ScriptFields maps semantic fields to gjson paths relative to one item of
// the embedded listing array.
type ScriptFields struct {
	ID            string
	Title         string
	Price         string
	OriginalPrice string
	Discount      string
	Rating        string
	RatingCount   string
	URL           string
	Image         string
}

// ScriptGlobal describes one inline-script data blob a retailer embeds,
// e.g. `window.pageData = {...}` with listings under mods.listItems.
type ScriptGlobal struct {
	Marker   string // global-assignment prefix to locate
	ListPath string // gjson path from the blob root to the listing array
	Fields   ScriptFields
}

// Profile holds everything about a retailer's markup that the shared
// strategies need. Selector candidates are ordered; the first non-empty
// match per field wins, with no scoring across candidates.
type Profile struct {
	ContainerSelectors []string
	Title              []FieldSelector
	Price              []FieldSelector
	OriginalPrice      []FieldSelector
	Discount           []FieldSelector
	Rating             []FieldSelector
	RatingCount        []FieldSelector
	Link               []FieldSelector
	Image              []FieldSelector

	ScriptGlobals []ScriptGlobal

	// ProductURLPattern identifies product anchors for the regex strategy,
	// e.g. hrefs containing /p/ or /products/.
	ProductURLPattern *regexp.Regexp

	// MaxProducts bounds per-page processing cost. Zero means DefaultMaxProducts.
	MaxProducts int
}

// DefaultMaxProducts caps how many containers or anchors one page may yield.
const DefaultMaxProducts = 20

func (p *Profile) maxProducts() int {
	if p.MaxProducts > 0 {
		return p.MaxProducts
	}
	return DefaultMaxProducts
}

// plausible reports whether a raw record is worth normalizing: it must link
// somewhere and carry at least a title or a price.
func plausible(r Raw) bool {
	return r.ProductURL != "" && (r.Title != "" || r.Price != "")
}
