package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const cssPixelsPerInch = 96

// ChromeOptions configures the headless browser renderer.
type ChromeOptions struct {
	// Timeout bounds one render, including typesetting. Default 60s.
	Timeout time.Duration
	// BaseFontPx is the font size fitting starts from. Default 16.
	BaseFontPx float64
	// MinFontPx is the smallest font size tried before falling back to
	// uniform scaling. Default 9.
	MinFontPx float64
	// ExecPath points at a Chrome/Chromium binary; empty uses the default
	// lookup.
	ExecPath string
}

// Chrome renders panels in one shared headless Chrome process. Each Render
// call opens its own tab, so concurrent renders are isolated while the
// browser launch cost is paid once per run.
type Chrome struct {
	browser     context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        ChromeOptions
}

var _ Renderer = (*Chrome)(nil)

// NewChrome launches the browser process and verifies it is usable.
func NewChrome(opts ChromeOptions) (*Chrome, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.BaseFontPx <= 0 {
		opts.BaseFontPx = 16
	}
	if opts.MinFontPx <= 0 {
		opts.MinFontPx = 9
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browser, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browser); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	return &Chrome{browser: browser, cancel: cancel, allocCancel: allocCancel, opts: opts}, nil
}

// Render typesets the markdown and prints it to a one-page PDF of exactly
// widthPx by heightPx. Fitting is two-stage: the root font size is binary
// searched down to MinFontPx until the content height fits, and anything
// still overflowing is printed with a uniform scale factor instead of being
// cropped.
func (c *Chrome) Render(ctx context.Context, md string, widthPx, heightPx int) ([]byte, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return nil, fmt.Errorf("render: non-positive panel box %dx%d", widthPx, heightPx)
	}
	html, err := noteHTML(md, widthPx, c.opts.BaseFontPx)
	if err != nil {
		return nil, err
	}

	// Fresh tab per render; the shared browser process is not assumed safe
	// for interleaved commands on one target.
	tab, cancelTab := chromedp.NewContext(c.browser)
	defer cancelTab()
	tab, cancelTimeout := context.WithTimeout(tab, c.opts.Timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var typeset bool
	var measuredPx float64
	var pdf []byte
	err = chromedp.Run(tab,
		chromedp.EmulateViewport(int64(widthPx), int64(heightPx)),
		chromedp.Navigate(dataURL),
		chromedp.Poll("window.__typeset === true", &typeset),
		chromedp.Evaluate(fitScript(heightPx, c.opts.BaseFontPx, c.opts.MinFontPx), &measuredPx),
		chromedp.ActionFunc(func(ctx context.Context) error {
			scale := 1.0
			if measuredPx > float64(heightPx) {
				scale = float64(heightPx) / measuredPx
			}
			if scale < 0.1 {
				scale = 0.1 // printToPDF rejects smaller factors
			}
			var perr error
			pdf, _, perr = page.PrintToPDF().
				WithPaperWidth(float64(widthPx) / cssPixelsPerInch).
				WithPaperHeight(float64(heightPx) / cssPixelsPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithScale(scale).
				WithPageRanges("1").
				Do(ctx)
			return perr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render panel: %w", err)
	}
	return pdf, nil
}

// Close shuts the browser process down.
func (c *Chrome) Close() error {
	err := chromedp.Cancel(c.browser)
	c.cancel()
	c.allocCancel()
	return err
}

// fitScript shrinks the root font size until the content height fits the
// target, then reports the final content height so the caller can decide
// whether a uniform print scale is still needed.
func fitScript(targetPx int, basePx, minPx float64) string {
	return fmt.Sprintf(`(function () {
  var target = %d, lo = %g, hi = %g;
  var root = document.documentElement;
  function heightAt(px) {
    root.style.fontSize = px + "px";
    return document.body.scrollHeight;
  }
  var best = lo;
  if (heightAt(hi) <= target) {
    best = hi;
  } else {
    for (var i = 0; i < 16 && hi - lo > 0.25; i++) {
      var mid = (lo + hi) / 2;
      if (heightAt(mid) <= target) { best = mid; lo = mid; } else { hi = mid; }
    }
  }
  return heightAt(best);
})()`, targetPx, minPx, basePx)
}
