package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"

	"github.com/janesferr/Regression-test/models"
)

// HTMLWriter writes per-page image directories and re-renders the
// index on every result, so whatever the run produced so far survives
// an external kill.
type HTMLWriter struct {
	root string
	meta Meta
	tmpl *template.Template

	mu   sync.Mutex
	rows []*models.PageResult
}

// NewHTMLWriter initialises the output directory and the index
// template.
func NewHTMLWriter(root string, meta Meta) (*HTMLWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", root, err)
	}
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLWriter{root: root, meta: meta, tmpl: tmpl}, nil
}

// Write persists the result's images and refreshes index.html.
func (w *HTMLWriter) Write(res *models.PageResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := persistImages(w.root, res); err != nil {
		return err
	}
	w.rows = append(w.rows, res)
	return w.render()
}

// Close renders the final index. An empty run still produces a valid,
// empty report page.
func (w *HTMLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.render()
}

// Validate ensures the index was written and is non-empty.
func (w *HTMLWriter) Validate() error {
	info, err := os.Stat(w.indexPath())
	if err != nil {
		return fmt.Errorf("stat report index: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("report index is empty")
	}
	return nil
}

func (w *HTMLWriter) render() error {
	model := BuildModel(w.meta, w.rows)

	f, err := os.Create(w.indexPath())
	if err != nil {
		return fmt.Errorf("create report index: %w", err)
	}
	if err := w.tmpl.Execute(f, model); err != nil {
		f.Close()
		return fmt.Errorf("render report index: %w", err)
	}
	return f.Close()
}

func (w *HTMLWriter) indexPath() string {
	return filepath.Join(w.root, "index.html")
}
