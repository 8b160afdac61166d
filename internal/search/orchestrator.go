// Package search coordinates multi-platform product searches: fan-out
// across requested platforms with per-platform isolation, partial cache-hit
// merging, post-filtering and sorting.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopsavvy/savvy-scrape/internal/browser"
	"github.com/shopsavvy/savvy-scrape/internal/cache"
	"github.com/shopsavvy/savvy-scrape/internal/extract"
	"github.com/shopsavvy/savvy-scrape/internal/models"
	"github.com/shopsavvy/savvy-scrape/internal/platform"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config tunes the orchestrator.
type Config struct {
	// TTL applies to every cache write. One policy for all call sites.
	TTL time.Duration

	// PlatformTimeout bounds one platform's whole fetch+extract attempt.
	PlatformTimeout time.Duration

	// MaxConcurrent caps simultaneous platform fetches. Headless pages are
	// expensive and too many parallel fetches from one IP invite
	// rate-limit detection.
	MaxConcurrent int
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = cache.DefaultTTL
	}
	if c.PlatformTimeout <= 0 {
		c.PlatformTimeout = 90 * time.Second
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}
	return c
}

// Orchestrator runs searches against the platform registry.
type Orchestrator struct {
	store cache.Store
	cfg   Config
	log   *logrus.Entry
}

// New creates an Orchestrator. store may be nil to disable caching.
func New(store cache.Store, cfg Config) *Orchestrator {
	return &Orchestrator{
		store: store,
		cfg:   cfg.withDefaults(),
		log:   logrus.WithField("component", "orchestrator"),
	}
}

// ClearCache drops every cached entry, when the configured store supports
// it. Returns false when there is nothing to clear.
func (o *Orchestrator) ClearCache() bool {
	if c, ok := o.store.(interface{ Clear() }); ok {
		c.Clear()
		return true
	}
	return false
}

type platformResult struct {
	name     string
	state    State
	products []models.Product
	warning  string
}

// Search runs one multi-platform search. It always returns a response; the
// Success flag is false only on total failure (unknown platform list or a
// browser that cannot launch at all). Per-platform blocks, timeouts and
// empty pages degrade to warnings in Errors.
func (o *Orchestrator) Search(ctx context.Context, req models.SearchRequest) *models.SearchResponse {
	adapters, err := platform.Resolve(req.Platforms)
	if err != nil || len(adapters) == 0 {
		return &models.SearchResponse{
			Success: false,
			Results: []models.Product{},
			Errors:  []string{fmt.Sprintf("no platforms to search: %v", err)},
		}
	}
	if req.MaxPages <= 0 {
		req.MaxPages = 1
	}

	cached, toScrape := o.splitCached(req, adapters)
	results := make([]platformResult, 0, len(adapters))
	results = append(results, cached...)

	fresh, fatal := o.scrape(ctx, req, toScrape)
	results = append(results, fresh...)

	var warnings []string
	var merged []models.Product
	for _, r := range results {
		if r.warning != "" {
			warnings = append(warnings, r.warning)
		}
		merged = append(merged, r.products...)
		o.log.WithFields(logrus.Fields{
			"platform": r.name,
			"state":    r.state.String(),
			"products": len(r.products),
		}).Info("platform merged")
	}

	if fatal != nil {
		warnings = append(warnings, fatal.Error())
	}

	merged = ApplyFilters(merged, req.Filters)
	Sort(merged, req.Filters.SortBy)
	if merged == nil {
		merged = []models.Product{}
	}

	return &models.SearchResponse{
		// A launch failure means no platform was truly attempted.
		Success: fatal == nil,
		Results: merged,
		Count:   len(merged),
		Errors:  warnings,
	}
}

// splitCached partitions the requested platforms into those already served
// by a fresh cache entry and those that need scraping. Partial hits are the
// default cost control: scraping is expensive and retailers block eagerly,
// so only missing platforms are re-fetched.
func (o *Orchestrator) splitCached(req models.SearchRequest, adapters []*platform.Adapter) (cached []platformResult, toScrape []*platform.Adapter) {
	if o.store == nil || !req.UseCache || req.ForceRefresh {
		return nil, adapters
	}
	for _, a := range adapters {
		key := cache.Key(req.Query, req.Filters, a.Name(), req.MaxPages)
		if products, ok := o.store.Get(key); ok {
			cached = append(cached, platformResult{
				name:     a.Name(),
				state:    StateMerged,
				products: products,
			})
			continue
		}
		toScrape = append(toScrape, a)
	}
	return cached, toScrape
}

// scrape fans out across the platforms that need fetching. The returned
// fatal error is non-nil only for infrastructure failures (browser launch).
func (o *Orchestrator) scrape(ctx context.Context, req models.SearchRequest, adapters []*platform.Adapter) ([]platformResult, error) {
	if len(adapters) == 0 {
		return nil, nil
	}

	results := make([]platformResult, len(adapters))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrent)

	for i, a := range adapters {
		g.Go(func() error {
			results[i] = o.scrapeOne(gctx, req, a)
			if results[i].state == StateFetching {
				// Still marked fetching means the launch failed underneath;
				// surface it to cancel the remaining platforms.
				return fmt.Errorf("%s: %s", a.Name(), results[i].warning)
			}
			return nil
		})
	}
	fatal := g.Wait()
	return results, fatal
}

func (o *Orchestrator) scrapeOne(ctx context.Context, req models.SearchRequest, a *platform.Adapter) platformResult {
	r := platformResult{name: a.Name(), state: StateFetching}
	platform.Report(ctx, "searching %s...", a.Name())

	pctx, cancel := context.WithTimeout(ctx, o.cfg.PlatformTimeout)
	defer cancel()

	products, err := a.Search(pctx, req.Query, req.Filters, req.MaxPages)
	switch {
	case err == nil:
		r.state = StateExtracted
		r.products = products
		o.writeBack(req, a.Name(), products)
	case errors.Is(err, platform.ErrBlocked):
		r.state = StateBlocked
		r.warning = fmt.Sprintf("%s: blocked by anti-bot protection", a.Name())
		o.log.WithField("platform", a.Name()).Warn("platform blocked")
	case errors.Is(err, platform.ErrNavTimeout), errors.Is(err, context.DeadlineExceeded):
		r.state = StateTimedOut
		r.warning = fmt.Sprintf("%s: timed out", a.Name())
		o.log.WithField("platform", a.Name()).Warn("platform timed out")
	case errors.Is(err, extract.ErrEmpty):
		r.state = StateEmpty
		r.warning = fmt.Sprintf("%s: no products found", a.Name())
	default:
		var launchErr *browser.LaunchError
		if errors.As(err, &launchErr) {
			// Leave state at fetching; scrape() turns this into a fatal.
			r.warning = launchErr.Error()
			return r
		}
		r.state = StateEmpty
		r.warning = fmt.Sprintf("%s: %v", a.Name(), err)
	}
	return r
}

func (o *Orchestrator) writeBack(req models.SearchRequest, name string, products []models.Product) {
	if o.store == nil || !req.UseCache {
		return
	}
	key := cache.Key(req.Query, req.Filters, name, req.MaxPages)
	o.store.Set(key, products, o.cfg.TTL)
}
