package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/janesferr/Regression-test/models"
)

// runHeader is the first JSONL record; it carries the run metadata the
// HTML report shows in its header block.
type runHeader struct {
	SourceBase     string    `json:"source_base"`
	TargetBase     string    `json:"target_base"`
	SourceDegraded bool      `json:"source_degraded,omitempty"`
	TargetDegraded bool      `json:"target_degraded,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// JSONWriter appends one JSON record per page result to report.json
// (JSONL), flushing after every write. Images are persisted the same
// way as the HTML sink so both formats reference the same files.
type JSONWriter struct {
	root    string
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the output directory and the record file,
// and writes the run-metadata header record.
func NewJSONWriter(root string, meta Meta) (*JSONWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", root, err)
	}
	f, err := os.Create(filepath.Join(root, "report.json"))
	if err != nil {
		return nil, fmt.Errorf("create json report: %w", err)
	}
	buffer := bufio.NewWriter(f)
	w := &JSONWriter{
		root:    root,
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}
	header := runHeader{
		SourceBase:     meta.SourceBase,
		TargetBase:     meta.TargetBase,
		SourceDegraded: meta.SourceDegraded,
		TargetDegraded: meta.TargetDegraded,
		GeneratedAt:    time.Now(),
	}
	if err := w.encoder.Encode(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode json header: %w", err)
	}
	if err := buffer.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush json report: %w", err)
	}
	return w, nil
}

// Write persists the result's images and appends its JSON record.
func (w *JSONWriter) Write(res *models.PageResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := persistImages(w.root, res); err != nil {
		return err
	}
	if err := w.encoder.Encode(res); err != nil {
		return fmt.Errorf("encode json record: %w", err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("flush json report: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the record file.
func (w *JSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("flush json report: %w", err)
	}
	return w.file.Close()
}

// Validate ensures the record file exists on disk. Stat goes through
// the path, not the handle, so validation still works after Close.
func (w *JSONWriter) Validate() error {
	if _, err := os.Stat(filepath.Join(w.root, "report.json")); err != nil {
		return fmt.Errorf("stat json report: %w", err)
	}
	return nil
}
