package sites

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
)

// Lazada search pages ship the full listing as a window.pageData blob, which
// is by far the most reliable source when present. The selector lists cover
// the obfuscated class names of the last few markup revisions.
func Lazada() *platform.Site {
	base := "https://www.lazada.com.ph"
	return &platform.Site{
		Name:    "lazada",
		BaseURL: base,
		SearchURL: func(query string, filters models.SearchFilters, page int) string {
			v := url.Values{}
			v.Set("q", query)
			if page > 1 {
				v.Set("page", fmt.Sprintf("%d", page))
			}
			if filters.MinPrice > 0 || filters.MaxPrice > 0 {
				v.Set("price", fmt.Sprintf("%.0f-%.0f", filters.MinPrice, filters.MaxPrice))
			}
			if filters.Brand != "" {
				v.Set("brand", filters.Brand)
			}
			return base + "/catalog/?" + v.Encode()
		},
		Headers:      navigationHeaders(base + "/"),
		WaitSelector: `[data-qa-locator="product-item"]`,
		CaptchaPhrases: append([]string{
			"punish?x5sec",
			"slide to verify",
		}, commonCaptchaPhrases...),
		Profile: extract.Profile{
			ScriptGlobals: []extract.ScriptGlobal{
				{
					Marker:   "window.pageData",
					ListPath: "mods.listItems",
					Fields: extract.ScriptFields{
						ID:            "itemId",
						Title:         "name",
						Price:         "priceShow",
						OriginalPrice: "originalPriceShow",
						Discount:      "discount",
						Rating:        "ratingScore",
						RatingCount:   "review",
						URL:           "productUrl",
						Image:         "image",
					},
				},
			},
			ContainerSelectors: []string{
				`[data-qa-locator="product-item"]`,
				`div.Bm3ON`,
				`.gridItem--Yd0sa`,
			},
			Title: []extract.FieldSelector{
				{Selector: `.RfADt a`, Attr: "title"},
				{Selector: `.RfADt a`},
				{Selector: `a[title]`, Attr: "title"},
				{Selector: `.title--wFj93`},
			},
			Price: []extract.FieldSelector{
				{Selector: `.aBrP0 .ooOxS`},
				{Selector: `.price--NVB62`},
				{Selector: `span[class*="price"]`},
			},
			OriginalPrice: []extract.FieldSelector{
				{Selector: `.WNoq3 del`},
				{Selector: `del[class*="origPrice"]`},
				{Selector: `del`},
			},
			Discount: []extract.FieldSelector{
				{Selector: `.WNoq3 .IcOsH`},
				{Selector: `span[class*="discount"]`},
			},
			Rating: []extract.FieldSelector{
				{Selector: `.mdmmT`, Attr: "data-rating"},
				{Selector: `span[class*="rating"]`},
			},
			RatingCount: []extract.FieldSelector{
				{Selector: `.qzqFw`},
				{Selector: `span[class*="rating__review"]`},
			},
			Link: []extract.FieldSelector{
				{Selector: `.RfADt a`, Attr: "href"},
				{Selector: `a[href*="/products/"]`, Attr: "href"},
				{Selector: `a`, Attr: "href"},
			},
			Image: []extract.FieldSelector{
				{Selector: `.picture-wrapper img`, Attr: "src"},
				{Selector: `img[type="product"]`, Attr: "src"},
				{Selector: `img`, Attr: "data-src"},
				{Selector: `img`, Attr: "src"},
			},
			ProductURLPattern: regexp.MustCompile(`/products/.+\.html`),
		},
	}
}
