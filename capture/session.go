package capture

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/janesferr/Regression-test/config"
)

// Browser is the automation capability the capturer drives. It is
// satisfied by Session and by test fakes.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Eval(ctx context.Context, script string) error
	CaptureFullPage(ctx context.Context) ([]byte, error)
}

// Session is a single Chrome instance reused sequentially for every
// page in a run. It is not safe for concurrent use; the runner is the
// only caller and stays single-threaded.
type Session struct {
	cfg           *config.Config
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession launches Chrome with the run's environment knobs applied:
// headless mode, window size, user agent, automation-flag suppression,
// and certificate-error tolerance for staging hosts.
func NewSession(cfg *config.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.NoSandbox,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if cfg.InsecureTLS {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so launch failures
	// surface here instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Session{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Navigate loads a page and waits for the load event. A rendered error
// status (4xx/5xx) counts as a navigation failure.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(s.browserCtx, s.cfg.Timeout)
	defer cancel()

	resp, err := chromedp.RunResponse(tctx, chromedp.Navigate(pageURL))
	if err != nil {
		return err
	}
	if resp != nil && resp.Status >= 400 {
		return fmt.Errorf("http status %d", resp.Status)
	}
	return nil
}

// Eval runs a script in the page and waits for its promise, if it
// returns one. The result value is discarded.
func (s *Session) Eval(ctx context.Context, script string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(s.browserCtx, s.cfg.Timeout)
	defer cancel()

	return chromedp.Run(tctx, chromedp.Evaluate(script, nil,
		func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
			return p.WithAwaitPromise(true)
		},
	))
}

// CaptureFullPage captures the entire rendered page height as PNG via
// CDP, not just the visible viewport.
func (s *Session) CaptureFullPage(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tctx, cancel := context.WithTimeout(s.browserCtx, s.cfg.Timeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(tctx, chromedp.ActionFunc(func(ctx context.Context) error {
		img, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			Do(ctx)
		if err != nil {
			return err
		}
		buf = img
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Close tears down the browser process. Safe to call once on every
// exit path.
func (s *Session) Close() {
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}
