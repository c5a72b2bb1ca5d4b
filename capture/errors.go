package capture

import (
	"context"
	"errors"
	"fmt"
)

// NavigationError indicates the page never reached a capturable state:
// transport failure, timeout, or an error status rendered by the
// server.
type NavigationError struct {
	URL string
	Err error
}

func (e NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e NavigationError) Unwrap() error {
	return e.Err
}

// CaptureError indicates the page loaded but the full-page screenshot
// could not be produced.
type CaptureError struct {
	URL string
	Err error
}

func (e CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.URL, e.Err)
}

func (e CaptureError) Unwrap() error {
	return e.Err
}

// ErrorKind maps an error to its report label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var nav NavigationError
	if errors.As(err, &nav) {
		return "navigation"
	}
	var capErr CaptureError
	if errors.As(err, &capErr) {
		return "capture"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "interrupted"
	}
	return "other"
}
