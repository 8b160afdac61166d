package stealth

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// robotsTTL is how long fetched robots.txt rules stay valid.
const robotsTTL = time.Hour

// RobotsChecker answers whether a URL may be crawled under the target
// domain's robots.txt. Rules are fetched once per domain and cached;
// concurrent first requests for the same domain share one fetch.
type RobotsChecker struct {
	client  *http.Client
	enabled bool

	mu    sync.RWMutex
	cache map[string]robotsEntry
	group singleflight.Group
}

type robotsEntry struct {
	data    *robotstxt.RobotsData
	fetched time.Time
}

// NewRobotsChecker creates a checker. When disabled it allows everything.
func NewRobotsChecker(client *http.Client, enabled bool) *RobotsChecker {
	return &RobotsChecker{
		client:  client,
		enabled: enabled,
		cache:   make(map[string]robotsEntry),
	}
}

// IsAllowed reports whether rawURL may be fetched as userAgent. An
// unreachable or unparseable robots.txt allows the crawl; only an explicit
// rule forbids it.
func (r *RobotsChecker) IsAllowed(userAgent, rawURL string) (bool, error) {
	if !r.enabled {
		return true, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, err
	}
	data, err := r.rulesFor(u.Scheme + "://" + u.Host)
	if err != nil {
		return true, nil
	}
	return data.FindGroup(userAgent).Test(u.Path), nil
}

// CrawlDelay returns the domain's crawl delay for the user agent, zero when
// none is declared.
func (r *RobotsChecker) CrawlDelay(userAgent, domain string) time.Duration {
	if !r.enabled {
		return 0
	}
	data, err := r.rulesFor(domain)
	if err != nil {
		return 0
	}
	return data.FindGroup(userAgent).CrawlDelay
}

func (r *RobotsChecker) rulesFor(domain string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	e, ok := r.cache[domain]
	r.mu.RUnlock()
	if ok && time.Since(e.fetched) < robotsTTL {
		return e.data, nil
	}

	v, err, _ := r.group.Do(domain, func() (any, error) {
		data, err := r.fetch(domain)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[domain] = robotsEntry{data: data, fetched: time.Now()}
		r.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*robotstxt.RobotsData), nil
}

func (r *RobotsChecker) fetch(domain string) (*robotstxt.RobotsData, error) {
	resp, err := r.client.Get(domain + "/robots.txt")
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}
	return robotstxt.FromBytes(body)
}
