package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsavvy/savvy-scrape/internal/browser"
	"github.com/shopsavvy/savvy-scrape/internal/cache"
	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
)

func testSite(name string) *platform.Site {
	base := "https://" + name + ".example"
	return &platform.Site{
		Name:    name,
		BaseURL: base,
		SearchURL: func(query string, _ models.SearchFilters, page int) string {
			return fmt.Sprintf("%s/search?q=%s&page=%d", base, query, page)
		},
		CaptchaPhrases: []string{"captcha"},
		Profile: extract.Profile{
			ProductURLPattern: regexp.MustCompile(`/p/`),
		},
	}
}

// fakeFetcher serves a fixed HTML body and counts fetches; err short-circuits.
type fakeFetcher struct {
	html    string
	err     error
	fetches int
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ *platform.Site, pageURL string) (*extract.Page, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return &extract.Page{URL: pageURL, HTML: f.html}, nil
}

func listingHTML(slug string, price string) string {
	return fmt.Sprintf(`<html><body><a href="/p/%s">x</a> %s</body></html>`, slug, price)
}

func register(t *testing.T, name string, f platform.Fetcher) {
	t.Helper()
	platform.Register(platform.NewAdapter(testSite(name), f))
}

func newRequest(platforms ...string) models.SearchRequest {
	return models.SearchRequest{
		Query:     "headphones",
		Platforms: platforms,
		MaxPages:  1,
		UseCache:  true,
	}
}

func TestSearchMergesPlatforms(t *testing.T) {
	platform.Reset()
	register(t, "alpha", &fakeFetcher{html: listingHTML("anc-headphones-1", "₱1,500.00")})
	register(t, "beta", &fakeFetcher{html: listingHTML("wired-headphones-2", "₱350.00")})

	orch := New(nil, Config{})
	resp := orch.Search(context.Background(), newRequest("alpha", "beta"))

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Errors)
	require.Equal(t, 2, resp.Count)

	platforms := map[string]bool{}
	for _, p := range resp.Results {
		platforms[p.Platform] = true
	}
	assert.True(t, platforms["alpha"])
	assert.True(t, platforms["beta"])
}

func TestBlockedPlatformDoesNotPoisonOthers(t *testing.T) {
	platform.Reset()
	register(t, "alpha", &fakeFetcher{html: `<html><body>captcha challenge</body></html>`})
	register(t, "beta", &fakeFetcher{html: listingHTML("wired-headphones-2", "₱350.00")})

	orch := New(nil, Config{})
	resp := orch.Search(context.Background(), newRequest("alpha", "beta"))

	assert.True(t, resp.Success)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "beta", resp.Results[0].Platform)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "alpha")
	assert.Contains(t, resp.Errors[0], "blocked")
}

func TestCacheHitAvoidsSecondFetch(t *testing.T) {
	platform.Reset()
	fetcher := &fakeFetcher{html: listingHTML("anc-headphones-1", "₱1,500.00")}
	register(t, "alpha", fetcher)

	orch := New(cache.NewMemory(), Config{})
	req := newRequest("alpha")

	first := orch.Search(context.Background(), req)
	require.True(t, first.Success)
	require.Equal(t, 1, fetcher.fetches)

	second := orch.Search(context.Background(), req)
	require.True(t, second.Success)
	assert.Equal(t, 1, fetcher.fetches, "second search must be served from cache")
	assert.Equal(t, first.Results, second.Results)
}

func TestForceRefreshBypassesCache(t *testing.T) {
	platform.Reset()
	fetcher := &fakeFetcher{html: listingHTML("anc-headphones-1", "₱1,500.00")}
	register(t, "alpha", fetcher)

	orch := New(cache.NewMemory(), Config{})
	req := newRequest("alpha")

	orch.Search(context.Background(), req)
	req.ForceRefresh = true
	orch.Search(context.Background(), req)
	assert.Equal(t, 2, fetcher.fetches)
}

func TestPartialCacheHit(t *testing.T) {
	platform.Reset()
	alphaFetcher := &fakeFetcher{html: listingHTML("anc-headphones-1", "₱1,500.00")}
	betaFetcher := &fakeFetcher{html: listingHTML("wired-headphones-2", "₱350.00")}
	register(t, "alpha", alphaFetcher)
	register(t, "beta", betaFetcher)

	orch := New(cache.NewMemory(), Config{})

	// Warm the cache for alpha only.
	orch.Search(context.Background(), newRequest("alpha"))
	require.Equal(t, 1, alphaFetcher.fetches)

	// A two-platform search reuses alpha's entry and scrapes only beta.
	resp := orch.Search(context.Background(), newRequest("alpha", "beta"))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, alphaFetcher.fetches)
	assert.Equal(t, 1, betaFetcher.fetches)
}

func TestUnknownPlatformFails(t *testing.T) {
	platform.Reset()

	orch := New(nil, Config{})
	resp := orch.Search(context.Background(), newRequest("nosuch"))

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	require.NotEmpty(t, resp.Errors)
}

func TestLaunchFailureIsFatal(t *testing.T) {
	platform.Reset()
	register(t, "alpha", &fakeFetcher{err: &browser.LaunchError{Err: errors.New("chromium not found")}})

	orch := New(nil, Config{})
	resp := orch.Search(context.Background(), newRequest("alpha"))

	assert.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[len(resp.Errors)-1], "chromium not found")
}

func TestEmptyPlatformDegradesToWarning(t *testing.T) {
	platform.Reset()
	register(t, "alpha", &fakeFetcher{html: `<html><body>no results for this query</body></html>`})

	orch := New(nil, Config{})
	resp := orch.Search(context.Background(), newRequest("alpha"))

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Results)
	assert.Equal(t, 0, resp.Count)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "no products found")
}

func TestTimeoutDegradesToWarning(t *testing.T) {
	platform.Reset()
	register(t, "alpha", &fakeFetcher{err: platform.ErrNavTimeout})

	orch := New(nil, Config{PlatformTimeout: time.Second})
	resp := orch.Search(context.Background(), newRequest("alpha"))

	assert.True(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "timed out")
}
