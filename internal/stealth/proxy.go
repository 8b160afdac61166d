package stealth

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
)

// ProxyRotator cycles through upstream proxies. It serves two consumers:
// the static HTTP path (as a RoundTripper) and the headless launcher (as a
// proxy URL passed to the browser process).
type ProxyRotator struct {
	proxies    []*url.URL
	transports []http.RoundTripper
	mu         sync.Mutex
	idx        int
}

// NewProxyRotator builds a rotator from proxy URLs. Returns nil when the
// list is empty, which callers treat as "direct".
func NewProxyRotator(proxies []*url.URL) *ProxyRotator {
	if len(proxies) == 0 {
		return nil
	}
	transports := make([]http.RoundTripper, len(proxies))
	for i, p := range proxies {
		transports[i] = &http.Transport{
			Proxy:             http.ProxyURL(p),
			DisableKeepAlives: true, // fresh connection per request
		}
	}
	return &ProxyRotator{proxies: proxies, transports: transports}
}

// LoadProxyFile reads one proxy URL per line, ignoring blanks and
// #-comments. Lines without a scheme are assumed to be http host:port.
func LoadProxyFile(path string) ([]*url.URL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	var proxies []*url.URL
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "://") {
			line = "http://" + line
		}
		u, err := url.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("proxy %q: %w", line, err)
		}
		proxies = append(proxies, u)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}
	return proxies, nil
}

// NextURL returns the next proxy URL in round-robin order.
func (p *ProxyRotator) NextURL() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := p.proxies[p.idx%len(p.proxies)]
	p.idx++
	return u
}

// NextTransport returns a RoundTripper routed through the next proxy.
func (p *ProxyRotator) NextTransport() http.RoundTripper {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.transports[p.idx%len(p.transports)]
	p.idx++
	return t
}
