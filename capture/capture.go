// Package capture drives a shared browser session through the per-page
// capture procedure and iterates the reconciled work list.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/janesferr/Regression-test/config"
	"github.com/janesferr/Regression-test/models"
)

// dismissOverlayScript clicks the first button whose text mentions
// "Accept", which clears the common cookie/consent overlays. Purely
// advisory: the capturer ignores its outcome.
const dismissOverlayScript = `(() => {
	const button = Array.from(document.querySelectorAll('button'))
		.find(b => (b.textContent || '').includes('Accept'));
	if (button) { button.click(); }
	return true;
})()`

// lazyLoadScript scrolls the page to the bottom in fixed steps so
// deferred images and sections materialize, then jumps back to the top
// and fires a resize event before capture.
func lazyLoadScript(step int) string {
	return fmt.Sprintf(`new Promise(resolve => {
	const step = %d;
	let y = 0;
	const timer = setInterval(() => {
		y += step;
		window.scrollTo(0, y);
		if (y >= document.body.scrollHeight) {
			clearInterval(timer);
			window.scrollTo(0, 0);
			window.dispatchEvent(new Event('resize'));
			resolve(true);
		}
	}, 100);
})`, step)
}

// Capturer captures one page at a time with a bounded attempt budget.
type Capturer struct {
	browser Browser
	cfg     *config.Config
	metrics *Metrics
}

// NewCapturer builds a capturer over an existing browser capability.
func NewCapturer(browser Browser, cfg *config.Config, metrics *Metrics) *Capturer {
	return &Capturer{browser: browser, cfg: cfg, metrics: metrics}
}

// Capture runs the per-page state machine up to cfg.MaxAttempts times
// and returns the final outcome. Every attempt is stateless: a retry
// re-navigates from scratch and any partial state from the failed
// attempt is discarded. A success never carries zero image bytes.
func (c *Capturer) Capture(ctx context.Context, pageURL string) models.Capture {
	var lastErr error
	attempts := 0

	// A non-positive budget still gets one attempt; without it the
	// loop would produce a failure with no underlying error.
	budget := c.cfg.MaxAttempts
	if budget < 1 {
		budget = 1
	}

	for attempt := 1; attempt <= budget; attempt++ {
		if attempt > 1 {
			c.metrics.IncRetries()
			if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
				if lastErr == nil {
					lastErr = err
				}
				break
			}
		}

		attempts = attempt
		start := time.Now()
		img, err := c.attempt(ctx, pageURL)
		c.metrics.ObserveDuration(time.Since(start))

		if err != nil {
			lastErr = err
			slog.Warn("capture attempt failed",
				slog.String("url", pageURL),
				slog.Int("attempt", attempt),
				slog.Int("budget", budget),
				slog.String("kind", ErrorKind(err)),
				slog.Any("error", err),
			)
			continue
		}

		return models.Capture{
			Status:   models.CaptureSuccess,
			Image:    img,
			Attempts: attempt,
		}
	}

	return models.Capture{
		Status:    models.CaptureFailed,
		ErrorKind: ErrorKind(lastErr),
		Error:     lastErr.Error(),
		Attempts:  attempts,
	}
}

func (c *Capturer) attempt(ctx context.Context, pageURL string) ([]byte, error) {
	if err := c.browser.Navigate(ctx, pageURL); err != nil {
		return nil, NavigationError{URL: pageURL, Err: err}
	}

	// Let late-arriving assets and scripts settle.
	if err := c.sleep(ctx, c.cfg.SettleDelay); err != nil {
		return nil, NavigationError{URL: pageURL, Err: err}
	}

	// Advisory steps: failure here never fails the attempt.
	if err := c.browser.Eval(ctx, dismissOverlayScript); err != nil {
		slog.Debug("overlay dismissal skipped",
			slog.String("url", pageURL), slog.Any("error", err))
	}
	if err := c.browser.Eval(ctx, lazyLoadScript(c.cfg.ScrollStep)); err != nil {
		slog.Debug("lazy-load scroll skipped",
			slog.String("url", pageURL), slog.Any("error", err))
	}

	img, err := c.browser.CaptureFullPage(ctx)
	if err != nil {
		return nil, CaptureError{URL: pageURL, Err: err}
	}
	if len(img) == 0 {
		return nil, CaptureError{URL: pageURL, Err: errors.New("empty screenshot")}
	}
	return img, nil
}

func (c *Capturer) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
