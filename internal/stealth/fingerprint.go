package stealth

import (
	"net/http"
	"sync"
)

// Fingerprint is one coherent browser identity: the user agent, the headers
// that agent would send, and the values fingerprinting scripts read back
// from navigator and WebGL. Mixing values from different identities is a
// detection signal, so they rotate as a unit.
type Fingerprint struct {
	UserAgent      string
	Headers        http.Header
	NavPlatform    string
	Languages      []string
	Locale         string
	Timezone       string
	WebGLVendor    string
	WebGLRenderer  string
	HardwareMemory int // navigator.deviceMemory, GB
}

// FingerprintPool rotates through a set of browser fingerprints.
type FingerprintPool struct {
	fingerprints []Fingerprint
	mu           sync.Mutex
	idx          int
}

// NewFingerprintPool creates a pool with realistic desktop fingerprints.
func NewFingerprintPool() *FingerprintPool {
	return &FingerprintPool{fingerprints: defaultFingerprints()}
}

// Next returns the next fingerprint in round-robin order.
func (fp *FingerprintPool) Next() Fingerprint {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	f := fp.fingerprints[fp.idx%len(fp.fingerprints)]
	fp.idx++
	return f
}

func defaultFingerprints() []Fingerprint {
	return []Fingerprint{
		// Chrome 133 on Windows
		{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Headers:        chromeHeaders("133", "Windows"),
			NavPlatform:    "Win32",
			Languages:      []string{"en-PH", "en"},
			Locale:         "en-PH",
			Timezone:       "Asia/Manila",
			WebGLVendor:    "Google Inc. (NVIDIA)",
			WebGLRenderer:  "ANGLE (NVIDIA, NVIDIA GeForce GTX 1660 Direct3D11 vs_5_0 ps_5_0, D3D11)",
			HardwareMemory: 8,
		},
		// Chrome 133 on macOS
		{
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Headers:        chromeHeaders("133", "macOS"),
			NavPlatform:    "MacIntel",
			Languages:      []string{"en-PH", "en"},
			Locale:         "en-PH",
			Timezone:       "Asia/Manila",
			WebGLVendor:    "Google Inc. (Apple)",
			WebGLRenderer:  "ANGLE (Apple, Apple M2, OpenGL 4.1)",
			HardwareMemory: 16,
		},
		// Chrome 133 on Linux
		{
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
			Headers:        chromeHeaders("133", "Linux"),
			NavPlatform:    "Linux x86_64",
			Languages:      []string{"en-PH", "en"},
			Locale:         "en-PH",
			Timezone:       "Asia/Manila",
			WebGLVendor:    "Google Inc. (Intel)",
			WebGLRenderer:  "ANGLE (Intel, Mesa Intel(R) UHD Graphics 630, OpenGL 4.6)",
			HardwareMemory: 8,
		},
		// Edge 133 on Windows
		{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36 Edg/133.0.0.0",
			Headers:        chromeHeaders("133", "Windows"),
			NavPlatform:    "Win32",
			Languages:      []string{"en-PH", "en"},
			Locale:         "en-PH",
			Timezone:       "Asia/Manila",
			WebGLVendor:    "Google Inc. (AMD)",
			WebGLRenderer:  "ANGLE (AMD, AMD Radeon RX 6600 Direct3D11 vs_5_0 ps_5_0, D3D11)",
			HardwareMemory: 16,
		},
	}
}

func chromeHeaders(version, platform string) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "en-PH,en;q=0.9")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Ch-Ua", `"Chromium";v="`+version+`", "Not(A:Brand";v="99", "Google Chrome";v="`+version+`"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", `"`+platform+`"`)
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}
