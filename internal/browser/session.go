// Package browser owns the headless-browser session used for retailers
// whose listings only exist after JS execution. The session is configured
// to minimize automated-traffic detection: automation flags are stripped at
// launch, a stealth init script rewrites what fingerprinting scripts can
// observe, and heavy resources are aborted for speed.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/shopsavvy/savvy-scrape/internal/stealth"
)

// LaunchError means the browser process could not start. It is the only
// infrastructure failure that aborts a whole search.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string { return fmt.Sprintf("launch browser: %v", e.Err) }
func (e *LaunchError) Unwrap() error { return e.Err }

// Options configure a Session.
type Options struct {
	Headless       bool
	BlockResources bool   // abort images/fonts/stylesheets/media
	Bin            string // browser binary override
	LauncherURL    string // remote rod launcher, optional
	ProxyURL       string // host:port routed through the browser process

	// Fingerprints supplies the identity injected into every new page.
	Fingerprints *stealth.FingerprintPool

	NavTimeout  time.Duration // total time allowed per navigation
	WaitTimeout time.Duration // best-effort wait for the product selector
}

func (o Options) navTimeout() time.Duration {
	if o.NavTimeout > 0 {
		return o.NavTimeout
	}
	return 45 * time.Second
}

func (o Options) waitTimeout() time.Duration {
	if o.WaitTimeout > 0 {
		return o.WaitTimeout
	}
	return 5 * time.Second
}

// Session is one browser process. A session may serve many page visits,
// but each visit gets a fresh page that is closed before VisitHTML returns.
type Session struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// Open launches the browser with anti-automation flags applied.
func Open(opts Options) (*Session, error) {
	var l *launcher.Launcher
	if opts.LauncherURL != "" {
		l = launcher.MustNewManaged(opts.LauncherURL)
	} else {
		l = launcher.New().
			Headless(opts.Headless).
			Logger(io.Discard).
			Set("disable-blink-features", "AutomationControlled").
			Delete("enable-automation")
	}
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	} else if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if opts.ProxyURL != "" {
		l = l.Proxy(opts.ProxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, &LaunchError{Err: err}
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, &LaunchError{Err: err}
	}

	return &Session{opts: opts, launcher: l, browser: b}, nil
}

// VisitHTML navigates a fresh stealth page to pageURL and returns the
// rendered HTML. The page is closed before returning, whether navigation
// succeeded, timed out or failed.
func (s *Session) VisitHTML(ctx context.Context, pageURL string, headers http.Header, waitSelector string) (string, error) {
	page, err := s.newStealthPage(headers)
	if err != nil {
		return "", err
	}
	defer page.Close()

	if s.opts.BlockResources {
		stop := blockHeavyResources(page)
		defer stop()
	}

	page = page.Context(ctx).Timeout(s.opts.navTimeout())
	if err := page.Navigate(pageURL); err != nil {
		return "", fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", pageURL, err)
	}

	// Best-effort wait for a product card; pages without it still proceed
	// to fallback extraction.
	if waitSelector != "" {
		_, _ = page.Timeout(s.opts.waitTimeout()).Element(waitSelector)
	}
	_ = page.Timeout(s.opts.waitTimeout()).WaitDOMStable(time.Second, 0.1)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page HTML: %w", err)
	}
	return html, nil
}

// Close releases all browser resources. Safe to call more than once.
func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

func (s *Session) newStealthPage(headers http.Header) (*rod.Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	ok := false
	defer func() {
		if !ok {
			page.Close()
		}
	}()

	fp := stealth.Fingerprint{}
	if s.opts.Fingerprints != nil {
		fp = s.opts.Fingerprints.Next()
	}

	if _, err := page.EvalOnNewDocument(StealthScript(fp)); err != nil {
		return nil, fmt.Errorf("inject stealth script: %w", err)
	}

	if fp.UserAgent != "" {
		override := &proto.NetworkSetUserAgentOverride{
			UserAgent:      fp.UserAgent,
			AcceptLanguage: fp.Locale,
			Platform:       fp.NavPlatform,
		}
		if err := page.SetUserAgent(override); err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if fp.Timezone != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: fp.Timezone}).Call(page); err != nil {
			return nil, fmt.Errorf("set timezone: %w", err)
		}
	}
	if fp.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: fp.Locale}).Call(page); err != nil {
			return nil, fmt.Errorf("set locale: %w", err)
		}
	}

	if len(headers) > 0 {
		var pairs []string
		for key, vals := range headers {
			for _, v := range vals {
				pairs = append(pairs, key, v)
			}
		}
		if _, err := page.SetExtraHeaders(pairs); err != nil {
			return nil, fmt.Errorf("set headers: %w", err)
		}
	}

	ok = true
	return page, nil
}

// blockHeavyResources aborts requests for images, fonts, stylesheets and
// media. Listings are extracted from markup and script blobs, so none of
// these affect the result.
func blockHeavyResources(page *rod.Page) (stop func()) {
	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		switch h.Request.Type() {
		case proto.NetworkResourceTypeImage,
			proto.NetworkResourceTypeFont,
			proto.NetworkResourceTypeStylesheet,
			proto.NetworkResourceTypeMedia:
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		default:
			h.ContinueRequest(&proto.FetchContinueRequest{})
		}
	})
	go router.Run()
	return func() { _ = router.Stop() }
}
