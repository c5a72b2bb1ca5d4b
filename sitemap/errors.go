package sitemap

import (
	"errors"
	"fmt"
)

// FetchError indicates the sitemap could not be retrieved: transport
// failure or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sitemap fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("sitemap fetch %s: %v", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// ParseError indicates the sitemap was retrieved but its XML could not
// be parsed. Kept distinct from FetchError so callers can apply a
// different fallback policy.
type ParseError struct {
	URL string
	Err error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("sitemap parse %s: %v", e.URL, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

func errorKind(err error) string {
	var fetch FetchError
	if errors.As(err, &fetch) {
		return "sitemap_fetch"
	}
	var parse ParseError
	if errors.As(err, &parse) {
		return "sitemap_parse"
	}
	return "other"
}
