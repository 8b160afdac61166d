package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// RegexStrategy is the last resort: it never parses a DOM, it scans the raw
// HTML for product-looking anchors and pulls an image, a title and a price
// out of a bounded slice of surrounding markup.
type RegexStrategy struct{}

func (r *RegexStrategy) Source() string { return models.SourceRegex }

var (
	anchorRe = regexp.MustCompile(`<a\s[^>]*href\s*=\s*["']([^"']+)["']`)
	imgSrcRe = regexp.MustCompile(`<img[^>]+(?:src|data-src)\s*=\s*["']([^"']+)["']`)
	imgAltRe = regexp.MustCompile(`<img[^>]+alt\s*=\s*["']([^"']+)["']`)
)

// windowSize bounds how much surrounding HTML is scanned per anchor.
const windowSize = 2000

func (r *RegexStrategy) Extract(page *Page, prof *Profile) ([]Raw, error) {
	if prof.ProductURLPattern == nil {
		return nil, fmt.Errorf("no product URL pattern configured")
	}

	max := prof.maxProducts()
	seen := make(map[string]bool)
	var raws []Raw

	for _, m := range anchorRe.FindAllStringSubmatchIndex(page.HTML, -1) {
		href := page.HTML[m[2]:m[3]]
		if !prof.ProductURLPattern.MatchString(href) || seen[href] {
			continue
		}
		seen[href] = true

		end := m[0] + windowSize
		if end > len(page.HTML) {
			end = len(page.HTML)
		}
		window := page.HTML[m[0]:end]

		raw := Raw{ProductURL: href}
		if im := imgSrcRe.FindStringSubmatch(window); im != nil {
			raw.ImageURL = im[1]
		}
		if alt := imgAltRe.FindStringSubmatch(window); alt != nil {
			raw.Title = strings.TrimSpace(alt[1])
		}
		if raw.Title == "" {
			raw.Title = titleFromSlug(href)
		}
		if price, ok := findPriceText(window); ok {
			raw.Price = price
		}

		raws = append(raws, raw)
		if len(raws) >= max {
			break
		}
	}

	if len(raws) == 0 {
		return nil, fmt.Errorf("no product anchors matched in %s", page.URL)
	}
	return raws, nil
}

// titleFromSlug derives a readable title from the URL path slug, e.g.
// "/p/running-shoes-blue" -> "running shoes blue".
func titleFromSlug(href string) string {
	path := href
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	for _, suffix := range []string{".html", ".htm"} {
		path = strings.TrimSuffix(path, suffix)
	}
	path = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(path)
	return strings.TrimSpace(path)
}
