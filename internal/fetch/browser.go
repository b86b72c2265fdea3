// Package fetch - browser.go provides headless browser rendering for
// template pages that only produce their layout via JavaScript.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// WithBrowser renders a page in a headless browser and returns the rendered
// HTML. Plain HTTP fetching is enough for most template sources; this path
// exists for pages whose markup is assembled client-side.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side layout scripts a moment to settle.
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	return html, nil
}

// BrowserPage adapts WithBrowser into a Func so the site layer can swap it
// in for template page retrieval without changing call sites.
func BrowserPage(timeout time.Duration) Func {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return func(ctx context.Context, urlStr string) (*Result, error) {
		html, err := WithBrowser(ctx, urlStr, timeout)
		if err != nil {
			return nil, &Error{URL: urlStr, Message: "browser fetch failed", Cause: err}
		}
		return &Result{
			URL:         urlStr,
			Body:        []byte(html),
			ContentType: "text/html",
			StatusCode:  200,
		}, nil
	}
}
