package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopsavvy/savvy-scrape/internal/stealth"
)

func TestStealthScriptCarriesFingerprint(t *testing.T) {
	script := StealthScript(stealth.Fingerprint{
		NavPlatform:    "MacIntel",
		Languages:      []string{"en-PH", "en"},
		WebGLVendor:    "Google Inc. (Apple)",
		WebGLRenderer:  "ANGLE (Apple, Apple M2, OpenGL 4.1)",
		HardwareMemory: 16,
	})

	assert.Contains(t, script, `'webdriver', { get: () => undefined }`)
	assert.Contains(t, script, `["en-PH","en"]`)
	assert.Contains(t, script, `"MacIntel"`)
	assert.Contains(t, script, `deviceMemory', { get: () => 16 }`)
	assert.Contains(t, script, `"Google Inc. (Apple)"`)
	assert.Contains(t, script, `"ANGLE (Apple, Apple M2, OpenGL 4.1)"`)
	assert.Contains(t, script, "WebGL2RenderingContext")
}

func TestStealthScriptDefaults(t *testing.T) {
	script := StealthScript(stealth.Fingerprint{})

	assert.Contains(t, script, `["en-US","en"]`)
	assert.Contains(t, script, `"Win32"`)
	assert.Contains(t, script, `deviceMemory', { get: () => 8 }`)
}

func TestLaunchErrorUnwraps(t *testing.T) {
	inner := assert.AnError
	err := &LaunchError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), inner.Error())
}
