package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// DOMStrategy extracts products with cascading CSS selector candidates.
// Retailers change their markup often, so each semantic field carries an
// ordered list of selectors and the first non-empty match wins.
type DOMStrategy struct{}

func (d *DOMStrategy) Source() string { return models.SourceDOM }

func (d *DOMStrategy) Extract(page *Page, prof *Profile) ([]Raw, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	containers := findContainers(doc, prof.ContainerSelectors)
	if containers == nil {
		return nil, fmt.Errorf("no product containers matched in %s", page.URL)
	}

	max := prof.maxProducts()
	var raws []Raw
	containers.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		r := Raw{
			Title:         pickField(card, prof.Title),
			Price:         pickField(card, prof.Price),
			OriginalPrice: pickField(card, prof.OriginalPrice),
			Discount:      pickField(card, prof.Discount),
			Rating:        pickField(card, prof.Rating),
			RatingCount:   pickField(card, prof.RatingCount),
			ProductURL:    pickField(card, prof.Link),
			ImageURL:      pickField(card, prof.Image),
		}
		if r.ProductURL == "" {
			// The card itself may be the anchor.
			if href, ok := card.Attr("href"); ok {
				r.ProductURL = strings.TrimSpace(href)
			}
		}
		raws = append(raws, r)
		return len(raws) < max
	})
	return raws, nil
}

// findContainers tries container-level selectors in sequence and returns the
// first selection with at least one match.
func findContainers(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// pickField walks the candidate list for one field and takes the first
// non-empty value. Candidates with an Attr read that attribute; others read
// trimmed text. Lazy-load image attributes (data-src and friends) are
// expressed as extra candidates in the Profile, not special-cased here.
func pickField(card *goquery.Selection, candidates []FieldSelector) string {
	for _, c := range candidates {
		target := card
		if c.Selector != "" {
			target = card.Find(c.Selector).First()
		}
		if target.Length() == 0 {
			continue
		}
		var v string
		if c.Attr != "" {
			v, _ = target.Attr(c.Attr)
		} else {
			v = target.Text()
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
