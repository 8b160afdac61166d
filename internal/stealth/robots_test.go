package stealth

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const robotsBody = `User-agent: *
Disallow: /checkout/
Crawl-delay: 2
`

func TestRobotsChecker(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/robots.txt", r.URL.Path)
		fetches.Add(1)
		_, _ = w.Write([]byte(robotsBody))
	}))
	defer srv.Close()

	rc := NewRobotsChecker(srv.Client(), true)

	allowed, err := rc.IsAllowed("savvy-scrape", srv.URL+"/search?q=shoes")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = rc.IsAllowed("savvy-scrape", srv.URL+"/checkout/cart")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, 2*time.Second, rc.CrawlDelay("savvy-scrape", srv.URL))

	// Rules are cached per domain, not fetched per check.
	assert.Equal(t, int32(1), fetches.Load())
}

func TestRobotsCheckerDisabled(t *testing.T) {
	rc := NewRobotsChecker(http.DefaultClient, false)
	allowed, err := rc.IsAllowed("savvy-scrape", "https://anything.example/checkout/")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, rc.CrawlDelay("savvy-scrape", "https://anything.example"))
}

func TestRobotsCheckerUnreachableHostAllows(t *testing.T) {
	client := &http.Client{Timeout: 200 * time.Millisecond}
	rc := NewRobotsChecker(client, true)
	allowed, err := rc.IsAllowed("savvy-scrape", "http://127.0.0.1:1/search")
	require.NoError(t, err)
	assert.True(t, allowed)
}
