package sites

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
)

// Zalora renders server-side and exposes schema.org ItemList JSON-LD, so
// the script strategy usually wins without a headless pass. Product pages
// live under /p/.
func Zalora() *platform.Site {
	base := "https://www.zalora.com.ph"
	return &platform.Site{
		Name:    "zalora",
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
			return base + "/search?" + v.Encode()
		},
		Headers:        navigationHeaders(base + "/"),
		WaitSelector:   `a[data-testid="ProductCard"]`,
		CaptchaPhrases: commonCaptchaPhrases,
		Profile: extract.Profile{
			ContainerSelectors: []string{
				`a[data-testid="ProductCard"]`,
				`div[data-testid="productCard"]`,
				`.b-catalogList__itm`,
			},
			Title: []extract.FieldSelector{
				{Selector: `div[data-testid="ProductName"]`},
				{Selector: `.b-catalogList__itm-title`},
				{Selector: `img`, Attr: "alt"},
			},
			Price: []extract.FieldSelector{
				{Selector: `div[data-testid="ProductPrice"]`},
				{Selector: `span[data-testid="finalPrice"]`},
				{Selector: `.b-catalogList__itm-price`},
			},
			OriginalPrice: []extract.FieldSelector{
				{Selector: `span[data-testid="originalPrice"]`},
				{Selector: `del`},
			},
			Discount: []extract.FieldSelector{
				{Selector: `span[data-testid="discountPercentage"]`},
			},
			Link: []extract.FieldSelector{
				{Selector: `a[href*="/p/"]`, Attr: "href"},
			},
			Image: []extract.FieldSelector{
				{Selector: `img`, Attr: "src"},
				{Selector: `img`, Attr: "data-src"},
			},
			ProductURLPattern: regexp.MustCompile(`/p/`),
		},
	}
}
