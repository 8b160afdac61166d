package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// Normalizer maps raw field bags into canonical Product records for one
// platform. Normalization is deterministic for a given raw input: the clock
// and ID fallback are injectable so the same extraction always yields the
// same products.
type Normalizer struct {
	Platform string
	BaseURL  string

	// Now and NewID default to time.Now and uuid.NewString. Tests pin them.
	Now   func() time.Time
	NewID func() string
}

func NewNormalizer(platform, baseURL string) *Normalizer {
	return &Normalizer{Platform: platform, BaseURL: baseURL}
}

// Normalize converts raws into products stamped with the given provenance
// tag, dropping malformed candidates (missing title, URL or parseable
// price) and de-duplicating by product URL. The second return is the number
// of candidates dropped.
func (n *Normalizer) Normalize(raws []Raw, source string) ([]models.Product, int) {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	seen := make(map[string]bool, len(raws))
	products := make([]models.Product, 0, len(raws))
	dropped := 0

	for _, r := range raws {
		p, ok := n.normalizeOne(r, source, now())
		if !ok || seen[p.ProductURL] {
			dropped++
			continue
		}
		seen[p.ProductURL] = true
		products = append(products, p)
	}
	return products, dropped
}

func (n *Normalizer) normalizeOne(r Raw, source string, at time.Time) (models.Product, bool) {
	productURL := ResolveURL(n.BaseURL, r.ProductURL)
	if productURL == "" {
		return models.Product{}, false
	}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = titleFromSlug(r.ProductURL)
	}
	if title == "" {
		return models.Product{}, false
	}

	price, err := ParsePrice(r.Price)
	if err != nil {
		return models.Product{}, false
	}

	p := models.Product{
		ID:         strings.TrimSpace(r.ID),
		Title:      title,
		Price:      price,
		ProductURL: productURL,
		ImageURL:   ResolveURL(n.BaseURL, r.ImageURL),
		Platform:   n.Platform,
		Source:     source,
		ScrapedAt:  at,
	}
	if p.ID == "" {
		p.ID = n.deriveID(productURL)
	}

	if orig, err := ParsePrice(r.OriginalPrice); err == nil && orig > price {
		p.OriginalPrice = orig
		p.DiscountPercent = roundPercent((orig - price) / orig * 100)
	}
	if pct, ok := ParsePercent(r.Discount); ok {
		p.DiscountPercent = pct
	}
	if rating, ok := ParseRating(r.Rating); ok {
		p.Rating = rating
	}
	if count, ok := ParseCount(r.RatingCount); ok {
		p.RatingCount = count
	}
	return p, true
}

// deriveID prefers a URL path segment so IDs stay stable for de-duplication
// within one search; a generated ID is the last resort.
func (n *Normalizer) deriveID(productURL string) string {
	u, err := url.Parse(productURL)
	if err == nil {
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := len(segs) - 1; i >= 0; i-- {
			seg := strings.TrimSuffix(segs[i], ".html")
			if seg != "" {
				return n.Platform + ":" + seg
			}
		}
	}
	if n.NewID != nil {
		return n.NewID()
	}
	return uuid.NewString()
}

// ResolveURL makes href absolute against base. Absolute hrefs pass through
// unchanged; unparseable ones resolve to "".
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

func roundPercent(v float64) float64 {
	return float64(int(v + 0.5))
}
