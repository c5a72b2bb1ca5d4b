package sitemap

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/janesferr/Regression-test/models"
)

// CanonicalPath reduces an absolute URL to its path component: scheme,
// host, query, and fragment are dropped and trailing slashes are
// stripped (the root stays "/"). Case is preserved.
func CanonicalPath(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("canonical path for %q: %w", raw, err)
	}
	path := parsed.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path, nil
}

// BuildIndex fetches a site's sitemap and maps every canonical path to
// its page URL. Sitemap failures never propagate: the site degrades to
// a homepage-only index so the run still covers its root page. The
// returned index always has at least one entry.
func BuildIndex(r *Reader, label, baseURL, sitemapURL string) *models.SiteIndex {
	idx := models.NewSiteIndex(label, baseURL)

	urls, err := r.Fetch(sitemapURL)
	if err != nil {
		slog.Warn("sitemap unavailable, falling back to homepage only",
			slog.String("site", label),
			slog.String("sitemap", sitemapURL),
			slog.String("kind", errorKind(err)),
			slog.Any("error", err),
		)
		idx.Degraded = true
		idx.Add("/", baseURL)
		return idx
	}

	for _, pageURL := range urls {
		path, err := CanonicalPath(pageURL)
		if err != nil {
			slog.Debug("skipping unparseable sitemap entry",
				slog.String("site", label),
				slog.String("url", pageURL),
				slog.Any("error", err),
			)
			continue
		}
		// Last URL wins when a sitemap repeats a path.
		idx.Add(path, pageURL)
	}

	if idx.Len() == 0 {
		slog.Warn("sitemap contained no usable entries, falling back to homepage only",
			slog.String("site", label),
			slog.String("sitemap", sitemapURL),
		)
		idx.Degraded = true
		idx.Add("/", baseURL)
	}

	slog.Info("site index built",
		slog.String("site", label),
		slog.Int("pages", idx.Len()),
		slog.Bool("degraded", idx.Degraded),
	)
	return idx
}

// Reconcile merges the two site indexes into one ordered work list.
// Source paths come first in source order; paths that exist only on
// the target are appended in target order. A reviewer scanning the
// report top-down therefore sees shared and regressed pages before
// target-only additions.
func Reconcile(source, target *models.SiteIndex) []models.WorkItem {
	items := make([]models.WorkItem, 0, source.Len()+target.Len())

	for _, path := range source.Paths() {
		item := models.WorkItem{Path: path}
		item.SourceURL, _ = source.URL(path)
		if targetURL, ok := target.URL(path); ok {
			item.TargetURL = targetURL
		}
		items = append(items, item)
	}

	for _, path := range target.Paths() {
		if source.Has(path) {
			continue
		}
		targetURL, _ := target.URL(path)
		items = append(items, models.WorkItem{Path: path, TargetURL: targetURL})
	}

	return items
}
