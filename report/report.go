// Package report turns page results into browsable artifacts: a
// side-by-side HTML index and a machine-readable run record.
package report

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/janesferr/Regression-test/models"
)

// Writer is the output sink for page results.
type Writer interface {
	Write(res *models.PageResult) error
	Close() error
	Validate() error
}

// Meta carries run metadata into the report model.
type Meta struct {
	SourceBase     string
	TargetBase     string
	OutputDir      string
	SourceDegraded bool
	TargetDegraded bool
}

// BuildModel assembles the renderable report model from accumulated
// results. Pure transformation: no filesystem or browser access, and
// no pass/fail verdicts — review stays manual.
func BuildModel(meta Meta, results []*models.PageResult) *models.ReportModel {
	model := &models.ReportModel{
		Title:          "Visual regression report",
		SourceBase:     meta.SourceBase,
		TargetBase:     meta.TargetBase,
		SourceDegraded: meta.SourceDegraded,
		TargetDegraded: meta.TargetDegraded,
		GeneratedAt:    time.Now(),
		OutputDir:      meta.OutputDir,
		Rows:           results,
		Pages:          len(results),
	}
	for _, res := range results {
		if res.Source.Status == models.CaptureFailed {
			model.Failures++
		}
		if res.Target.Status == models.CaptureFailed {
			model.Failures++
		}
	}
	return model
}

// persistImages writes a result's screenshot bytes into the per-page
// subdirectory and swaps them for relative paths. Idempotent: a side
// already persisted (or without an image) is left alone.
func persistImages(root string, res *models.PageResult) error {
	if err := persistSide(root, res.Slug, "source", &res.Source); err != nil {
		return err
	}
	return persistSide(root, res.Slug, "target", &res.Target)
}

func persistSide(root, slug, side string, c *models.Capture) error {
	if !c.OK() || c.ImagePath != "" || len(c.Image) == 0 {
		return nil
	}
	dir := filepath.Join(root, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create page directory %q: %w", dir, err)
	}
	name := side + ".png"
	if err := os.WriteFile(filepath.Join(dir, name), c.Image, 0o644); err != nil {
		return fmt.Errorf("write %s image for %s: %w", side, slug, err)
	}
	c.ImagePath = path.Join(slug, name)
	c.Image = nil
	return nil
}
