package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/shopsavvy/savvy-scrape/config"
	"github.com/shopsavvy/savvy-scrape/internal/cache"
	"github.com/shopsavvy/savvy-scrape/internal/fetch"
	"github.com/shopsavvy/savvy-scrape/internal/httputil"
	"github.com/shopsavvy/savvy-scrape/internal/search"
	"github.com/shopsavvy/savvy-scrape/internal/sites"
	"github.com/shopsavvy/savvy-scrape/internal/stealth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "savvy-scrape",
	Short: "ShopSavvy Scrape - multi-platform product search CLI & MCP server",
	Long:  "Aggregated product search across Lazada, Zalora, Shein and Shopee with price extraction, caching and price-drop friendly output.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("delay-profile", "normal", "Delay profile: cautious, normal, aggressive")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().Bool("headless", true, "Run the browser headless")
	rootCmd.PersistentFlags().Bool("static-first", true, "Try a plain HTTP fetch before the headless browser")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for the persistent result cache (default: in-memory)")
	rootCmd.PersistentFlags().String("proxy-file", "", "Path to proxy list file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func initConfig() {
	cfg = config.Default()
	cfg.LoadFromEnv()

	if v, _ := rootCmd.PersistentFlags().GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("headless"); !v {
		cfg.Headless = false
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("static-first"); !v {
		cfg.StaticFirst = false
	}
	if v, _ := rootCmd.PersistentFlags().GetString("cache-dir"); v != "" {
		cfg.CacheDir = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("proxy-file"); v != "" {
		cfg.ProxyFile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// initPipeline builds the fetcher, registers every retailer and returns the
// orchestrator. The returned fetcher must be Closed when done to release
// the browser.
func initPipeline() (*search.Orchestrator, *fetch.Fetcher, error) {
	fps := stealth.NewFingerprintPool()
	delay := stealth.NewHumanDelay(stealth.DelayProfile(cfg.DelayProfile))
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)

	var proxy *stealth.ProxyRotator
	if cfg.ProxyFile != "" {
		urls, err := stealth.LoadProxyFile(cfg.ProxyFile)
		if err != nil {
			return nil, nil, err
		}
		proxy = stealth.NewProxyRotator(urls)
	}

	robots := stealth.NewRobotsChecker(&http.Client{}, cfg.RespectRobots)
	client := httputil.NewClient(&stealth.Transport{
		Base:        &http.Transport{MaxIdleConns: 100, MaxIdleConnsPerHost: 10},
		Robots:      robots,
		Fingerprint: fps,
		Proxy:       proxy,
		Delay:       delay,
		RateLimiter: limiter,
	})

	fetcher := fetch.New(fetch.Config{
		StaticFirst:    cfg.StaticFirst,
		Headless:       cfg.Headless,
		BlockResources: cfg.BlockResources,
		BrowserBin:     cfg.BrowserBin,
		LauncherURL:    cfg.LauncherURL,
	}, client, fps, delay, limiter, proxy)

	sites.RegisterAll(fetcher)

	store, err := buildStore()
	if err != nil {
		fetcher.Close()
		return nil, nil, err
	}

	orch := search.New(store, search.Config{
		TTL:             cfg.CacheTTL,
		PlatformTimeout: cfg.PlatformTimeout,
		MaxConcurrent:   cfg.MaxConcurrent,
	})
	return orch, fetcher, nil
}

func buildStore() (cache.Store, error) {
	if cfg.CacheDir != "" {
		return cache.NewFile(cfg.CacheDir)
	}
	return cache.NewMemory(), nil
}
