// Package sites holds the retailer definitions: URL grammar, request
// headers, anti-bot phrases and extraction profiles for each supported
// platform. All scraping behavior lives in the generic platform.Adapter.
package sites

import (
	"net/http"

	"github.com/shopsavvy/savvy-scrape/internal/platform"
)

// All returns the supported retailer definitions.
func All() []*platform.Site {
	return []*platform.Site{
		Lazada(),
		Zalora(),
		Shein(),
		Shopee(),
	}
}

// RegisterAll wires every retailer into the platform registry using the
// given fetcher.
func RegisterAll(fetcher platform.Fetcher) {
	for _, site := range All() {
		platform.Register(platform.NewAdapter(site, fetcher))
	}
}

// commonCaptchaPhrases appear across retailers' challenge pages.
var commonCaptchaPhrases = []string{
	"captcha",
	"verify that you are human",
	"unusual traffic",
	"access denied",
}

// navigationHeaders returns baseline document-navigation headers with the
// retailer's referer. Missing or wrong headers are a primary cause of empty
// or challenge responses.
func navigationHeaders(referer string) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-PH,en;q=0.9,fil;q=0.8")
	h.Set("Referer", referer)
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}
