package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Scraping behavior
	RespectRobots bool
	DelayProfile  string // "cautious", "normal", "aggressive"
	StaticFirst   bool   // try a plain HTTP fetch before the headless browser

	// Rate limiting / concurrency
	RatePerSecond   float64
	RateBurst       int
	MaxConcurrent   int
	PlatformTimeout time.Duration

	// Headless browser
	Headless       bool
	BlockResources bool
	BrowserBin     string
	LauncherURL    string

	// Cache
	CacheDir string // empty means in-memory only
	CacheTTL time.Duration

	// Proxy
	ProxyFile string // file with one proxy URL per line

	// HTTP server
	HTTPPort string
	APIKey   string

	LogLevel string
}

// Default returns configuration with sensible defaults.
func Default() *Config {
	return &Config{
		RespectRobots:   true,
		DelayProfile:    "normal",
		StaticFirst:     true,
		RatePerSecond:   1.0,
		RateBurst:       2,
		MaxConcurrent:   4,
		PlatformTimeout: 90 * time.Second,
		Headless:        true,
		BlockResources:  true,
		CacheTTL:        30 * time.Minute,
		HTTPPort:        "8080",
		LogLevel:        "info",
	}
}

// LoadFromEnv loads a .env file (if present) then overrides config from
// environment variables.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("SHOPSAVVY_DELAY_PROFILE"); v != "" {
		c.DelayProfile = v
	}
	if v := os.Getenv("SHOPSAVVY_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("SHOPSAVVY_STATIC_FIRST"); v == "false" {
		c.StaticFirst = false
	}
	if v := os.Getenv("SHOPSAVVY_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("SHOPSAVVY_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("SHOPSAVVY_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("SHOPSAVVY_PLATFORM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PlatformTimeout = d
		}
	}
	if v := os.Getenv("SHOPSAVVY_HEADLESS"); v == "false" {
		c.Headless = false
	}
	if v := os.Getenv("SHOPSAVVY_BLOCK_RESOURCES"); v == "false" {
		c.BlockResources = false
	}
	if v := os.Getenv("SHOPSAVVY_BROWSER_BIN"); v != "" {
		c.BrowserBin = v
	}
	if v := os.Getenv("SHOPSAVVY_LAUNCHER_URL"); v != "" {
		c.LauncherURL = v
	}
	if v := os.Getenv("SHOPSAVVY_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("SHOPSAVVY_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = d
		}
	}
	if v := os.Getenv("SHOPSAVVY_PROXIES"); v != "" {
		c.ProxyFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("SHOPSAVVY_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("SHOPSAVVY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
