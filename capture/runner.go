package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/janesferr/Regression-test/config"
	"github.com/janesferr/Regression-test/models"
)

// ResultSink receives each page result as soon as both sides are
// resolved. Implementations flush incrementally so a killed run leaves
// a usable partial report behind.
type ResultSink interface {
	Write(res *models.PageResult) error
}

// Runner walks the reconciled work list sequentially, capturing each
// side of each page. A failed capture on one side never skips the
// other side and never aborts later work items.
type Runner struct {
	capturer *Capturer
	cfg      *config.Config
	metrics  *Metrics
}

// NewRunner builds a runner over a shared browser capability.
func NewRunner(browser Browser, cfg *config.Config, metrics *Metrics) *Runner {
	return &Runner{
		capturer: NewCapturer(browser, cfg, metrics),
		cfg:      cfg,
		metrics:  metrics,
	}
}

// Run processes every work item in order and streams the results into
// the sink. The returned error is non-nil only for sink failures or an
// interrupted run; capture failures are recorded per page.
func (r *Runner) Run(ctx context.Context, items []models.WorkItem, sink ResultSink) (*models.RunResult, error) {
	result := &models.RunResult{
		StartTime:      time.Now(),
		FailuresByKind: make(map[string]int),
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			slog.Warn("run interrupted",
				slog.Int("completed", i),
				slog.Int("total", len(items)),
			)
			result.EndTime = time.Now()
			return result, err
		}

		res := r.processItem(ctx, item)
		result.Pages++
		tally(result, res.Source)
		tally(result, res.Target)

		if err := sink.Write(res); err != nil {
			result.EndTime = time.Now()
			return result, fmt.Errorf("write result for %s: %w", item.Path, err)
		}

		slog.Info("page processed",
			slog.String("path", item.Path),
			slog.String("source", string(res.Source.Status)),
			slog.String("target", string(res.Target.Status)),
			slog.Int("remaining", len(items)-i-1),
		)
	}

	result.EndTime = time.Now()
	return result, nil
}

func (r *Runner) processItem(ctx context.Context, item models.WorkItem) *models.PageResult {
	res := &models.PageResult{
		Path:       item.Path,
		Slug:       models.PathSlug(item.Path),
		SourceURL:  item.SourceURL,
		TargetURL:  item.TargetURL,
		CapturedAt: time.Now(),
	}
	res.Source = r.captureSide(ctx, "source", item.SourceURL)
	res.Target = r.captureSide(ctx, "target", item.TargetURL)
	r.metrics.IncPage()
	return res
}

func (r *Runner) captureSide(ctx context.Context, side, pageURL string) models.Capture {
	if pageURL == "" {
		return models.Capture{Status: models.CaptureSkipped}
	}
	capture := r.capturer.Capture(ctx, pageURL)
	r.metrics.IncCapture(side, string(capture.Status))
	return capture
}

func tally(result *models.RunResult, c models.Capture) {
	switch c.Status {
	case models.CaptureSuccess:
		result.Captures++
	case models.CaptureFailed:
		result.Failures++
		result.FailuresByKind[c.ErrorKind]++
	}
	if c.Attempts > 1 {
		result.Retries += c.Attempts - 1
	}
}
