package sites

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
)

// Shein search lives under /pdsearch/<query>/ and embeds the listing in a
// gbProductListSsrData blob. Product hrefs carry a "-p-<id>" segment.
func Shein() *platform.Site {
	base := "https://ph.shein.com"
	return &platform.Site{
		Name:    "shein",
		BaseURL: base,
		SearchURL: func(query string, filters models.SearchFilters, page int) string {
			v := url.Values{}
			if page > 1 {
				v.Set("page", fmt.Sprintf("%d", page))
			}
			if filters.MinPrice > 0 {
				v.Set("min_price", fmt.Sprintf("%.0f", filters.MinPrice))
			}
			if filters.MaxPrice > 0 {
				v.Set("max_price", fmt.Sprintf("%.0f", filters.MaxPrice))
			}
			u := base + "/pdsearch/" + url.PathEscape(query) + "/"
			if q := v.Encode(); q != "" {
				u += "?" + q
			}
			return u
		},
		Headers:      navigationHeaders(base + "/"),
		WaitSelector: `section.product-card`,
		CaptchaPhrases: append([]string{
			"please select the following graphics",
		}, commonCaptchaPhrases...),
		Profile: extract.Profile{
			ScriptGlobals: []extract.ScriptGlobal{
				{
					Marker:   "gbProductListSsrData",
					ListPath: "results.goods",
					Fields: extract.ScriptFields{
						ID:          "goods_id",
						Title:       "goods_name",
						Price:       "salePrice.amountWithSymbol",
						OriginalPrice: "retailPrice.amountWithSymbol",
						Discount:    "unit_discount",
						URL:         "detail_url",
						Image:       "goods_img",
					},
				},
			},
			ContainerSelectors: []string{
				`section.product-card`,
				`.S-product-item`,
				`.product-list__item`,
			},
			Title: []extract.FieldSelector{
				{Selector: `a.goods-title-link`},
				{Selector: `.S-product-item__name`},
				{Selector: `img`, Attr: "alt"},
			},
			Price: []extract.FieldSelector{
				{Selector: `.product-item__camecase-wrap span`},
				{Selector: `.S-product-item__price-current`},
				{Selector: `span[class*="price"]`},
			},
			OriginalPrice: []extract.FieldSelector{
				{Selector: `.S-product-item__price-discount`},
				{Selector: `del`},
			},
			Discount: []extract.FieldSelector{
				{Selector: `.S-product-item__discount`},
				{Selector: `div[class*="discount"]`},
			},
			Link: []extract.FieldSelector{
				{Selector: `a[href*="-p-"]`, Attr: "href"},
				{Selector: `a`, Attr: "href"},
			},
			Image: []extract.FieldSelector{
				{Selector: `img`, Attr: "data-src"},
				{Selector: `img`, Attr: "src"},
			},
			ProductURLPattern: regexp.MustCompile(`-p-\d+`),
		},
	}
}
