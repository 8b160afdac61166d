package browser

import (
	"encoding/json"
	"fmt"

	"github.com/shopsavvy/savvy-scrape/internal/stealth"
)

// StealthScript builds the init script injected into every new page before
// any site script runs. It rewrites the surfaces fingerprinting scripts
// read: navigator.webdriver, plugins, languages, platform, deviceMemory and
// the unmasked WebGL vendor/renderer strings.
func StealthScript(fp stealth.Fingerprint) string {
	languages := fp.Languages
	if len(languages) == 0 {
		languages = []string{"en-US", "en"}
	}
	langsJSON, _ := json.Marshal(languages)

	platform := fp.NavPlatform
	if platform == "" {
		platform = "Win32"
	}
	vendor := fp.WebGLVendor
	if vendor == "" {
		vendor = "Google Inc."
	}
	renderer := fp.WebGLRenderer
	if renderer == "" {
		renderer = "ANGLE (Intel, Intel(R) UHD Graphics, OpenGL 4.6)"
	}
	memory := fp.HardwareMemory
	if memory == 0 {
		memory = 8
	}

	return fmt.Sprintf(`() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'languages', { get: () => %s });
	Object.defineProperty(navigator, 'platform', { get: () => %q });
	Object.defineProperty(navigator, 'deviceMemory', { get: () => %d });

	// A plugin list of length zero is a headless giveaway.
	Object.defineProperty(navigator, 'plugins', {
		get: () => {
			const plugins = [
				{ name: 'PDF Viewer', filename: 'internal-pdf-viewer' },
				{ name: 'Chrome PDF Viewer', filename: 'internal-pdf-viewer' },
				{ name: 'Chromium PDF Viewer', filename: 'internal-pdf-viewer' },
			];
			plugins.item = i => plugins[i] || null;
			plugins.namedItem = n => plugins.find(p => p.name === n) || null;
			return plugins;
		},
	});

	if (!window.chrome) {
		window.chrome = { runtime: {} };
	}

	// Headless Chrome reports 'denied' for notifications without a prompt.
	const origQuery = window.navigator.permissions && window.navigator.permissions.query;
	if (origQuery) {
		window.navigator.permissions.query = parameters =>
			parameters.name === 'notifications'
				? Promise.resolve({ state: Notification.permission })
				: origQuery(parameters);
	}

	const patchGetParameter = proto => {
		const orig = proto.getParameter;
		proto.getParameter = function (parameter) {
			if (parameter === 37445) return %q; // UNMASKED_VENDOR_WEBGL
			if (parameter === 37446) return %q; // UNMASKED_RENDERER_WEBGL
			return orig.call(this, parameter);
		};
	};
	if (window.WebGLRenderingContext) patchGetParameter(WebGLRenderingContext.prototype);
	if (window.WebGL2RenderingContext) patchGetParameter(WebGL2RenderingContext.prototype);
}`, langsJSON, platform, memory, vendor, renderer)
}
