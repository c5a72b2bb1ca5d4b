package report

import (
	"fmt"
	"sync"

	"github.com/janesferr/Regression-test/models"
)

// DualWriter produces the HTML index and the JSON record side by side.
type DualWriter struct {
	html *HTMLWriter
	json *JSONWriter
	mu   sync.Mutex
}

// NewDualWriter creates both sinks over the same output root.
func NewDualWriter(root string, meta Meta) (*DualWriter, error) {
	htmlWriter, err := NewHTMLWriter(root, meta)
	if err != nil {
		return nil, fmt.Errorf("create html writer: %w", err)
	}
	jsonWriter, err := NewJSONWriter(root, meta)
	if err != nil {
		return nil, fmt.Errorf("create json writer: %w", err)
	}
	return &DualWriter{html: htmlWriter, json: jsonWriter}, nil
}

// Write hands the result to both sinks. Image persistence is
// idempotent, so the second sink reuses the files the first wrote.
func (w *DualWriter) Write(res *models.PageResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.html.Write(res); err != nil {
		return fmt.Errorf("html write: %w", err)
	}
	if err := w.json.Write(res); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	return nil
}

// Close closes both sinks, reporting every failure.
func (w *DualWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if err := w.html.Close(); err != nil {
		errs = append(errs, fmt.Errorf("html close: %w", err))
	}
	if err := w.json.Close(); err != nil {
		errs = append(errs, fmt.Errorf("json close: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Validate validates both outputs.
func (w *DualWriter) Validate() error {
	var errs []error
	if err := w.html.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := w.json.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}
