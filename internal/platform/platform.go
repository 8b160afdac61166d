// Package platform defines the retailer adapter. There is one generic
// Adapter parameterized by a Site definition; only the URL grammar, request
// headers and extraction profile vary per retailer.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/sirupsen/logrus"
)

// Site describes everything retailer-specific the generic adapter needs.
type Site struct {
	Name    string
	BaseURL string

	// SearchURL builds the search page URL for one query/filters/page. Each
	// retailer has its own query-parameter grammar.
	SearchURL func(query string, filters models.SearchFilters, page int) string

	// Headers are the request headers needed to look like organic traffic.
	// Wrong headers are a primary cause of empty or challenge responses.
	Headers http.Header

	// WaitSelector is a product-card selector waited for after navigation,
	// best-effort: expiry is not fatal, fallback extraction still runs.
	WaitSelector string

	// CaptchaPhrases are scanned (case-insensitively) over rendered page
	// text to recognize anti-bot challenges.
	CaptchaPhrases []string

	// DynamicOnly marks retailers whose listings are client-rendered; the
	// static HTTP fast path is skipped for them.
	DynamicOnly bool

	Profile extract.Profile
}

// Blocked reports whether the page text looks like an anti-bot challenge.
func (s *Site) Blocked(html string) bool {
	lower := strings.ToLower(html)
	for _, phrase := range s.CaptchaPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Fetcher retrieves one search page. Implementations own navigation,
// timeouts and resource cleanup; the production fetcher combines a static
// HTTP fast path with a headless-browser fallback.
type Fetcher interface {
	FetchPage(ctx context.Context, site *Site, pageURL string) (*extract.Page, error)
}

// Adapter fetches and extracts listings for one retailer.
type Adapter struct {
	site    *Site
	fetcher Fetcher
	chain   *extract.Chain
	norm    *extract.Normalizer
	log     *logrus.Entry
}

func NewAdapter(site *Site, fetcher Fetcher) *Adapter {
	return &Adapter{
		site:    site,
		fetcher: fetcher,
		chain:   extract.NewChain(),
		norm:    extract.NewNormalizer(site.Name, site.BaseURL),
		log:     logrus.WithField("platform", site.Name),
	}
}

func (a *Adapter) Name() string { return a.site.Name }

// Site exposes the retailer definition, mainly for URL-construction tests.
func (a *Adapter) Site() *Site { return a.site }

// Search fetches up to maxPages search pages and returns normalized
// products, de-duplicated by product URL across pages.
//
// Failure semantics: a blocked or timed-out first page surfaces its error;
// once any page has contributed, later page failures only end pagination.
func (a *Adapter) Search(ctx context.Context, query string, filters models.SearchFilters, maxPages int) ([]models.Product, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	seen := make(map[string]bool)
	var products []models.Product

	for page := 1; page <= maxPages; page++ {
		pageURL := a.site.SearchURL(query, filters, page)
		Report(ctx, "%s: fetching page %d", a.site.Name, page)

		fetched, err := a.fetchAndExtract(ctx, pageURL)
		if err != nil {
			if len(products) > 0 {
				a.log.WithError(err).WithField("page", page).Debug("pagination stopped")
				break
			}
			return nil, err
		}
		added := 0
		for _, p := range fetched {
			if seen[p.ProductURL] {
				continue
			}
			seen[p.ProductURL] = true
			products = append(products, p)
			added++
		}
		// A page that only repeats earlier listings means the result set
		// is exhausted.
		if added == 0 {
			break
		}
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("%s: %w", a.site.Name, extract.ErrEmpty)
	}
	return products, nil
}

func (a *Adapter) fetchAndExtract(ctx context.Context, pageURL string) ([]models.Product, error) {
	page, err := a.fetcher.FetchPage(ctx, a.site, pageURL)
	if err != nil {
		return nil, err
	}
	if a.site.Blocked(page.HTML) {
		return nil, fmt.Errorf("%s: %w", a.site.Name, ErrBlocked)
	}

	raws, source, err := a.chain.Run(page, &a.site.Profile)
	if err != nil {
		return nil, err
	}

	products, dropped := a.norm.Normalize(raws, source)
	a.log.WithFields(logrus.Fields{
		"url":      pageURL,
		"source":   source,
		"products": len(products),
		"dropped":  dropped,
	}).Debug("page extracted")

	if len(products) == 0 {
		return nil, fmt.Errorf("%s: all candidates malformed: %w", a.site.Name, extract.ErrEmpty)
	}
	return products, nil
}
