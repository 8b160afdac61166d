package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// ScriptJSONStrategy pulls structured listings out of inline scripts. It
// looks for the site's known global-assignment blobs first (the most
// reliable source when present), then for schema.org JSON-LD script tags.
type ScriptJSONStrategy struct{}

func (s *ScriptJSONStrategy) Source() string { return models.SourceScriptJSON }

func (s *ScriptJSONStrategy) Extract(page *Page, prof *Profile) ([]Raw, error) {
	for _, g := range prof.ScriptGlobals {
		raws := extractGlobal(page.HTML, g, prof.maxProducts())
		if len(raws) > 0 {
			return raws, nil
		}
	}

	raws, err := extractJSONLD(page.HTML, prof.maxProducts())
	if err == nil && len(raws) > 0 {
		return raws, nil
	}
	return nil, fmt.Errorf("no embedded product data in %s", page.URL)
}

// extractGlobal locates `marker = {...}` in the page source, slices out the
// balanced JSON literal and walks the configured listing path.
func extractGlobal(htmlContent string, g ScriptGlobal, max int) []Raw {
	idx := strings.Index(htmlContent, g.Marker)
	if idx < 0 {
		return nil
	}
	blob := sliceJSONLiteral(htmlContent[idx+len(g.Marker):])
	if blob == "" || !gjson.Valid(blob) {
		return nil
	}

	list := gjson.Get(blob, g.ListPath)
	if !list.IsArray() {
		return nil
	}

	var raws []Raw
	list.ForEach(func(_, item gjson.Result) bool {
		r := Raw{
			ID:            item.Get(g.Fields.ID).String(),
			Title:         item.Get(g.Fields.Title).String(),
			Price:         item.Get(g.Fields.Price).String(),
			OriginalPrice: item.Get(g.Fields.OriginalPrice).String(),
			Discount:      item.Get(g.Fields.Discount).String(),
			Rating:        item.Get(g.Fields.Rating).String(),
			RatingCount:   item.Get(g.Fields.RatingCount).String(),
			ProductURL:    item.Get(g.Fields.URL).String(),
			ImageURL:      item.Get(g.Fields.Image).String(),
		}
		raws = append(raws, r)
		return len(raws) < max
	})
	return raws
}

// sliceJSONLiteral returns the first balanced {...} or [...] literal at the
// start of s, skipping an optional assignment prefix. String contents and
// escapes are honored so braces inside titles do not break the scan.
func sliceJSONLiteral(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	// Reject if anything other than assignment glue precedes the literal.
	if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s[:start]), "=")) != "" {
		return ""
	}

	open, closer := s[start], byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// jsonLDItem is a loosely-typed schema.org object.
type jsonLDItem struct {
	Type            string                 `json:"@type"`
	Name            string                 `json:"name"`
	URL             string                 `json:"url"`
	Image           interface{}            `json:"image"`
	Offers          *jsonLDOffer           `json:"offers"`
	AggregateRating *jsonLDAggregateRating `json:"aggregateRating"`
	ItemListElement []jsonLDListElement    `json:"itemListElement"`
}

type jsonLDOffer struct {
	Price looseString `json:"price"`
}

type jsonLDAggregateRating struct {
	RatingValue looseString `json:"ratingValue"`
	ReviewCount looseString `json:"reviewCount"`
}

// looseString accepts both JSON numbers and strings. Retailers are not
// consistent about quoting prices and counts in their JSON-LD.
type looseString string

func (l *looseString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = looseString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*l = looseString(n.String())
	}
	return nil
}

type jsonLDListElement struct {
	Item *jsonLDItem `json:"item"`
}

// extractJSONLD walks the parsed document for application/ld+json script
// tags and collects Product and ItemList entries.
func extractJSONLD(htmlContent string, max int) ([]Raw, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var raws []Raw
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(raws) >= max {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, attr := range n.Attr {
				if attr.Key == "type" && attr.Val == "application/ld+json" && n.FirstChild != nil {
					raws = append(raws, parseJSONLD(n.FirstChild.Data, max-len(raws))...)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(raws) == 0 {
		return nil, fmt.Errorf("no JSON-LD product data")
	}
	return raws, nil
}

func parseJSONLD(data string, max int) []Raw {
	data = strings.TrimSpace(data)

	var item jsonLDItem
	if err := json.Unmarshal([]byte(data), &item); err == nil {
		if r, ok := jsonLDToRaw(&item); ok {
			return []Raw{r}
		}
		if item.Type == "ItemList" {
			var raws []Raw
			for _, elem := range item.ItemListElement {
				if elem.Item == nil {
					continue
				}
				if r, ok := jsonLDToRaw(elem.Item); ok {
					raws = append(raws, r)
					if len(raws) >= max {
						break
					}
				}
			}
			return raws
		}
	}

	var items []jsonLDItem
	if err := json.Unmarshal([]byte(data), &items); err == nil {
		var raws []Raw
		for i := range items {
			if r, ok := jsonLDToRaw(&items[i]); ok {
				raws = append(raws, r)
				if len(raws) >= max {
					break
				}
			}
		}
		return raws
	}
	return nil
}

func jsonLDToRaw(item *jsonLDItem) (Raw, bool) {
	if item.Type != "Product" {
		return Raw{}, false
	}
	r := Raw{
		Title:      item.Name,
		ProductURL: item.URL,
	}
	if item.Offers != nil {
		r.Price = string(item.Offers.Price)
	}
	if item.AggregateRating != nil {
		r.Rating = string(item.AggregateRating.RatingValue)
		r.RatingCount = string(item.AggregateRating.ReviewCount)
	}
	switch img := item.Image.(type) {
	case string:
		r.ImageURL = img
	case []interface{}:
		if len(img) > 0 {
			if s, ok := img[0].(string); ok {
				r.ImageURL = s
			}
		}
	}
	return r, true
}
