// Package models defines data structures shared across the pipeline.
package models

import (
	"strings"
	"time"
)

// SiteIndex maps canonical paths to absolute page URLs for one site,
// preserving first-seen path order. When the same path appears twice
// in a sitemap, the last URL wins.
type SiteIndex struct {
	Label    string
	BaseURL  string
	Degraded bool // homepage-only fallback after a sitemap failure

	paths []string
	urls  map[string]string
}

// NewSiteIndex creates an empty index for one site.
func NewSiteIndex(label, baseURL string) *SiteIndex {
	return &SiteIndex{
		Label:   label,
		BaseURL: baseURL,
		urls:    make(map[string]string),
	}
}

// Add records a path→URL mapping. A repeated path keeps its original
// position but takes the new URL.
func (s *SiteIndex) Add(path, url string) {
	if _, ok := s.urls[path]; !ok {
		s.paths = append(s.paths, path)
	}
	s.urls[path] = url
}

// URL returns the page URL for a path, if present.
func (s *SiteIndex) URL(path string) (string, bool) {
	url, ok := s.urls[path]
	return url, ok
}

// Has reports whether the path is in the index.
func (s *SiteIndex) Has(path string) bool {
	_, ok := s.urls[path]
	return ok
}

// Paths returns the paths in insertion order.
func (s *SiteIndex) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len returns the number of distinct paths.
func (s *SiteIndex) Len() int {
	return len(s.paths)
}

// WorkItem pairs a canonical path with the page URL on each site.
// At least one of the URLs is set.
type WorkItem struct {
	Path      string
	SourceURL string
	TargetURL string
}

// CaptureStatus is the terminal state of one page capture.
type CaptureStatus string

const (
	// CaptureSuccess means a full-page screenshot was produced.
	CaptureSuccess CaptureStatus = "success"
	// CaptureFailed means every attempt in the budget failed.
	CaptureFailed CaptureStatus = "failed"
	// CaptureSkipped means the page does not exist on that site.
	CaptureSkipped CaptureStatus = "skipped"
)

// Capture is the final outcome of capturing one page on one site.
// Image holds the screenshot bytes until the report sink persists them
// and replaces them with ImagePath.
type Capture struct {
	Status    CaptureStatus `json:"status"`
	Image     []byte        `json:"-"`
	ImagePath string        `json:"image_path,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Attempts  int           `json:"attempts"`
}

// OK reports whether the capture produced an image.
func (c Capture) OK() bool {
	return c.Status == CaptureSuccess
}

// PageResult is the outcome for one work item: one capture per side.
// It is owned by the runner until handed to the report sink.
type PageResult struct {
	Path       string    `json:"path"`
	Slug       string    `json:"slug"`
	SourceURL  string    `json:"source_url,omitempty"`
	TargetURL  string    `json:"target_url,omitempty"`
	Source     Capture   `json:"source"`
	Target     Capture   `json:"target"`
	CapturedAt time.Time `json:"captured_at"`
}

// PathSlug derives a filesystem-safe directory name for a canonical
// path: slashes become underscores and the root path becomes "home".
func PathSlug(path string) string {
	slug := strings.Trim(path, "/")
	if slug == "" {
		return "home"
	}
	return strings.ReplaceAll(slug, "/", "_")
}
