package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the settings for one comparison run. It is built once in
// main, validated, and passed read-only into every component.
type Config struct {
	SourceBaseURL    string
	TargetBaseURL    string
	SourceSitemapURL string
	TargetSitemapURL string
	OutputDir        string
	OutputFormat     string // html, json, or dual
	Headless         bool
	InsecureTLS      bool
	MaxAttempts      int
	RetryDelay       time.Duration
	SettleDelay      time.Duration
	Timeout          time.Duration
	ScrollStep       int
	WindowWidth      int
	WindowHeight     int
	UserAgent        string
	Verbose          bool
	MetricsAddr      string
}

// DefaultSitemapPath is appended to a site base URL when no explicit
// sitemap URL is configured.
const DefaultSitemapPath = "/page-sitemap.xml"

// DefaultConfig returns conservative defaults for a typical run.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:    "output/report",
		OutputFormat: "html",
		Headless:     true,
		InsecureTLS:  false,
		MaxAttempts:  3,
		RetryDelay:   2 * time.Second,
		SettleDelay:  3 * time.Second,
		Timeout:      30 * time.Second,
		ScrollStep:   400,
		WindowWidth:  1920,
		WindowHeight: 1080,
		UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Verbose:      false,
		MetricsAddr:  "",
	}
}

// SitemapURL resolves the sitemap URL for a base URL, falling back to
// the conventional location when none was configured.
func SitemapURL(explicit, baseURL string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(baseURL, "/") + DefaultSitemapPath
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if err := validateBaseURL("source base URL", c.SourceBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("target base URL", c.TargetBaseURL); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.OutputFormat != "html" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be html, json, or dual")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ScrollStep <= 0 {
		return fmt.Errorf("scroll step must be positive")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window dimensions must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

func validateBaseURL(label, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", label)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", label, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", label)
	}
	return nil
}
