// Package fetch implements the production platform.Fetcher. A static HTTP
// request through the stealth transport is tried first: several retailers
// embed their listing JSON in the raw HTML, and a plain GET is an order of
// magnitude cheaper than a headless render. The headless browser is the
// fallback, and the only path for client-rendered retailers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/shopsavvy/savvy-scrape/internal/browser"
	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/httputil"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
	"github.com/shopsavvy/savvy-scrape/internal/stealth"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Config wires the fetcher's stealth and browser behavior.
type Config struct {
	StaticFirst    bool
	Headless       bool
	BlockResources bool
	BrowserBin     string
	LauncherURL    string
}

// Fetcher combines the static and headless fetch paths. The browser session
// is launched lazily on first headless need and reused page-per-fetch until
// Close; pages never outlive a single FetchPage call.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	fps     *stealth.FingerprintPool
	delay   *stealth.HumanDelay
	limiter *rate.Limiter
	proxy   *stealth.ProxyRotator
	log     *logrus.Entry

	mu      sync.Mutex
	session *browser.Session
}

// New builds a Fetcher. client must already carry the stealth transport;
// proxy may be nil for direct traffic.
func New(cfg Config, client *http.Client, fps *stealth.FingerprintPool, delay *stealth.HumanDelay, limiter *rate.Limiter, proxy *stealth.ProxyRotator) *Fetcher {
	if client == nil {
		client = httputil.NewClient(nil)
	}
	return &Fetcher{
		cfg:     cfg,
		client:  client,
		fps:     fps,
		delay:   delay,
		limiter: limiter,
		proxy:   proxy,
		log:     logrus.WithField("component", "fetch"),
	}
}

// FetchPage implements platform.Fetcher.
func (f *Fetcher) FetchPage(ctx context.Context, site *platform.Site, pageURL string) (*extract.Page, error) {
	if f.cfg.StaticFirst && !site.DynamicOnly {
		page, err := f.fetchStatic(ctx, site, pageURL)
		if err == nil && !site.Blocked(page.HTML) && hasListingSignals(page.HTML, site) {
			return page, nil
		}
		if err != nil {
			f.log.WithError(err).WithField("url", pageURL).Debug("static path failed, falling back to headless")
		} else {
			f.log.WithField("url", pageURL).Debug("static page carried no listing signals, falling back to headless")
		}
		if ctx.Err() != nil {
			return nil, f.classify(ctx.Err(), pageURL)
		}
	}
	return f.fetchHeadless(ctx, site, pageURL)
}

func (f *Fetcher) fetchStatic(ctx context.Context, site *platform.Site, pageURL string) (*extract.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	for key, vals := range site.Headers {
		req.Header[key] = vals
	}

	resp, err := httputil.DoWithRetry(f.client, req, 1)
	if err != nil {
		return nil, f.classify(err, pageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s responded %d", pageURL, resp.StatusCode)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return &extract.Page{URL: pageURL, HTML: string(body)}, nil
}

func (f *Fetcher) fetchHeadless(ctx context.Context, site *platform.Site, pageURL string) (*extract.Page, error) {
	session, err := f.checkoutSession()
	if err != nil {
		return nil, err
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, f.classify(err, pageURL)
		}
	}
	if f.delay != nil {
		if err := f.delay.Wait(ctx); err != nil {
			return nil, f.classify(err, pageURL)
		}
	}

	html, err := session.VisitHTML(ctx, pageURL, site.Headers, site.WaitSelector)
	if err != nil {
		return nil, f.classify(err, pageURL)
	}
	return &extract.Page{URL: pageURL, HTML: html}, nil
}

// checkoutSession returns the shared browser session, launching it on first
// use. A LaunchError is returned as-is so the orchestrator can abort.
func (f *Fetcher) checkoutSession() (*browser.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != nil {
		return f.session, nil
	}

	opts := browser.Options{
		Headless:       f.cfg.Headless,
		BlockResources: f.cfg.BlockResources,
		Bin:            f.cfg.BrowserBin,
		LauncherURL:    f.cfg.LauncherURL,
		Fingerprints:   f.fps,
	}
	if f.proxy != nil {
		opts.ProxyURL = f.proxy.NextURL().Host
	}

	session, err := browser.Open(opts)
	if err != nil {
		return nil, err
	}
	f.session = session
	return session, nil
}

// Close releases the browser session if one was launched.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != nil {
		f.session.Close()
		f.session = nil
	}
}

func (f *Fetcher) classify(err error, pageURL string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", pageURL, platform.ErrNavTimeout)
	}
	return err
}

// hasListingSignals reports whether the static HTML carries anything the
// strategy chain could work with: a known script blob or product-looking
// hrefs. JS shell pages fail this and get the headless treatment.
func hasListingSignals(html string, site *platform.Site) bool {
	for _, g := range site.Profile.ScriptGlobals {
		if containsMarker(html, g.Marker) {
			return true
		}
	}
	if site.Profile.ProductURLPattern != nil && site.Profile.ProductURLPattern.MatchString(html) {
		return true
	}
	return containsMarker(html, `"application/ld+json"`)
}

func containsMarker(html, marker string) bool {
	return marker != "" && strings.Contains(html, marker)
}
