package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/janesferr/Regression-test/models"
)

// urlBrowser fails navigation for configured URLs and captures a
// one-byte image for everything else.
type urlBrowser struct {
	failNav map[string]bool
	lastURL string
}

func (b *urlBrowser) Navigate(_ context.Context, url string) error {
	b.lastURL = url
	if b.failNav[url] {
		return errors.New("navigation refused")
	}
	return nil
}

func (b *urlBrowser) Eval(_ context.Context, _ string) error {
	return nil
}

func (b *urlBrowser) CaptureFullPage(_ context.Context) ([]byte, error) {
	if b.failNav[b.lastURL] {
		return nil, errors.New("no page loaded")
	}
	return []byte{0x89}, nil
}

type recordingSink struct {
	results []*models.PageResult
	err     error
}

func (s *recordingSink) Write(res *models.PageResult) error {
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, res)
	return nil
}

func workItems() []models.WorkItem {
	return []models.WorkItem{
		{Path: "/", SourceURL: "http://source.test/", TargetURL: "http://target.test/"},
		{Path: "/about", SourceURL: "http://source.test/about/", TargetURL: "http://target.test/about/"},
		{Path: "/contact", SourceURL: "http://source.test/contact/"},
		{Path: "/pricing", TargetURL: "http://target.test/pricing/"},
	}
}

func TestRunnerProducesOneResultPerWorkItem(t *testing.T) {
	browser := &urlBrowser{failNav: map[string]bool{}}
	runner := NewRunner(browser, captureConfig(2), NewMetrics())
	sink := &recordingSink{}

	result, err := runner.Run(context.Background(), workItems(), sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.results) != 4 {
		t.Fatalf("results = %d, want one per work item", len(sink.results))
	}
	if result.Pages != 4 {
		t.Fatalf("pages = %d, want 4", result.Pages)
	}
	if result.Captures != 6 {
		t.Fatalf("captures = %d, want 6 (two one-sided items)", result.Captures)
	}

	if sink.results[2].Target.Status != models.CaptureSkipped {
		t.Fatalf("/contact target should be skipped: %+v", sink.results[2].Target)
	}
	if sink.results[3].Source.Status != models.CaptureSkipped {
		t.Fatalf("/pricing source should be skipped: %+v", sink.results[3].Source)
	}
}

func TestRunnerIsolatesPerPageFailure(t *testing.T) {
	browser := &urlBrowser{failNav: map[string]bool{
		"http://source.test/about/": true,
	}}
	runner := NewRunner(browser, captureConfig(2), NewMetrics())
	sink := &recordingSink{}

	result, err := runner.Run(context.Background(), workItems(), sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	about := sink.results[1]
	if about.Source.Status != models.CaptureFailed {
		t.Fatalf("/about source should fail: %+v", about.Source)
	}
	if about.Target.Status != models.CaptureSuccess {
		t.Fatalf("/about target must be unaffected by source failure: %+v", about.Target)
	}

	for i, res := range sink.results {
		if i == 1 {
			continue
		}
		if res.Source.Status == models.CaptureFailed || res.Target.Status == models.CaptureFailed {
			t.Fatalf("item %d affected by unrelated failure: %+v", i, res)
		}
	}

	if result.Failures != 1 {
		t.Fatalf("failures = %d, want 1", result.Failures)
	}
	if result.FailuresByKind["navigation"] != 1 {
		t.Fatalf("failure kinds = %v, want navigation=1", result.FailuresByKind)
	}
	if result.Retries != 1 {
		t.Fatalf("retries = %d, want 1 (budget 2, one failing side)", result.Retries)
	}
}

func TestRunnerStopsOnSinkError(t *testing.T) {
	browser := &urlBrowser{failNav: map[string]bool{}}
	runner := NewRunner(browser, captureConfig(1), NewMetrics())
	sink := &recordingSink{err: errors.New("disk full")}

	_, err := runner.Run(context.Background(), workItems(), sink)
	if err == nil {
		t.Fatalf("sink failure should surface as a run error")
	}
}

func TestRunnerHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	browser := &urlBrowser{failNav: map[string]bool{}}
	runner := NewRunner(browser, captureConfig(1), NewMetrics())
	sink := &recordingSink{}

	result, err := runner.Run(ctx, workItems(), sink)
	if err == nil {
		t.Fatalf("cancelled run should report the context error")
	}
	if result.Pages != 0 || len(sink.results) != 0 {
		t.Fatalf("no pages should be processed after cancellation")
	}
}
