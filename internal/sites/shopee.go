package sites

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
)

// Shopee is the most aggressively defended of the supported retailers: the
// listing is client-rendered, so the DOM strategy only works through the
// headless path, and challenge pages are common. Product hrefs end in
// "-i.<shopid>.<itemid>". Shopee pages are zero-indexed.
func Shopee() *platform.Site {
	base := "https://shopee.ph"
	return &platform.Site{
		Name:    "shopee",
		BaseURL: base,
		SearchURL: func(query string, filters models.SearchFilters, page int) string {
			v := url.Values{}
			v.Set("keyword", query)
			if page > 1 {
				v.Set("page", fmt.Sprintf("%d", page-1))
			}
			if filters.MinPrice > 0 {
				v.Set("minPrice", fmt.Sprintf("%.0f", filters.MinPrice))
			}
			if filters.MaxPrice > 0 {
				v.Set("maxPrice", fmt.Sprintf("%.0f", filters.MaxPrice))
			}
			return base + "/search?" + v.Encode()
		},
		Headers:      navigationHeaders(base + "/"),
		WaitSelector: `[data-sqe="item"]`,
		DynamicOnly:  true,
		CaptchaPhrases: append([]string{
			"please select the following graphics",
			"verify by sliding",
			"login to continue",
		}, commonCaptchaPhrases...),
		Profile: extract.Profile{
			ContainerSelectors: []string{
				`[data-sqe="item"]`,
				`li.shopee-search-item-result__item`,
				`.col-xs-2-4.shopee-search-item-result__item`,
			},
			Title: []extract.FieldSelector{
				{Selector: `[data-sqe="name"] div`},
				{Selector: `.ie3A\+n`},
				{Selector: `img`, Attr: "alt"},
			},
			Price: []extract.FieldSelector{
				{Selector: `[data-sqe="name"] + div span`},
				{Selector: `span.k9JZlt`},
				{Selector: `span[class*="price"]`},
			},
			OriginalPrice: []extract.FieldSelector{
				{Selector: `div[class*="before-discount"]`},
				{Selector: `del`},
			},
			Discount: []extract.FieldSelector{
				{Selector: `span[class*="percent"]`},
				{Selector: `.percent-discount`},
			},
			Rating: []extract.FieldSelector{
				{Selector: `div[class*="rating-stars"] + div`},
				{Selector: `.shopee-rating-stars__stars`, Attr: "data-rating"},
			},
			RatingCount: []extract.FieldSelector{
				{Selector: `div[class*="sold"]`},
			},
			Link: []extract.FieldSelector{
				{Selector: `a[href*="-i."]`, Attr: "href"},
				{Selector: `a`, Attr: "href"},
			},
			Image: []extract.FieldSelector{
				{Selector: `img[src*="susercontent"]`, Attr: "src"},
				{Selector: `img`, Attr: "src"},
			},
			ProductURLPattern: regexp.MustCompile(`-i\.\d+\.\d+`),
		},
	}
}
