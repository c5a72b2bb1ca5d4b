// Package sitemap discovers the page inventory of a site from its XML
// sitemap and reconciles two inventories into one ordered work list.
package sitemap

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/janesferr/Regression-test/config"
)

// Reader fetches one XML sitemap and extracts its <loc> entries in
// document order.
type Reader struct {
	cfg       *config.Config
	transport http.RoundTripper
}

// NewReader builds a reader configured from cfg. TLS verification is
// skipped only when cfg.InsecureTLS is set; staging environments with
// self-signed certificates need this, production runs should not.
func NewReader(cfg *config.Config) *Reader {
	return &Reader{cfg: cfg}
}

// Fetch retrieves sitemapURL and returns every <loc> text node in
// document order. Zero entries is a valid result. Failures are
// reported as FetchError or ParseError.
func (r *Reader) Fetch(sitemapURL string) ([]string, error) {
	c := colly.NewCollector(
		colly.UserAgent(r.cfg.UserAgent),
	)
	c.IgnoreRobotsTxt = true
	c.SetRequestTimeout(r.cfg.Timeout)
	c.WithTransport(r.httpTransport())

	var (
		locs    []string
		failure error
	)

	c.OnXML("//loc", func(e *colly.XMLElement) {
		if text := strings.TrimSpace(e.Text); text != "" {
			locs = append(locs, text)
		}
	})

	c.OnError(func(resp *colly.Response, err error) {
		if failure != nil {
			return
		}
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		if status >= 200 && status < 300 {
			// Body arrived but the XML handler choked on it.
			failure = ParseError{URL: sitemapURL, Err: err}
			return
		}
		failure = FetchError{URL: sitemapURL, StatusCode: status, Err: err}
	})

	err := c.Visit(sitemapURL)
	c.Wait()

	if failure != nil {
		return nil, failure
	}
	if err != nil {
		return nil, FetchError{URL: sitemapURL, Err: err}
	}
	return locs, nil
}

func (r *Reader) httpTransport() http.RoundTripper {
	if r.transport != nil {
		return r.transport
	}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: r.cfg.InsecureTLS},
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
	}
}
