package scraper

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"referral-finder/internal/domain"
	"referral-finder/internal/gate"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// HeadlessFetcher renders the page in headless Chrome before reading its markup.
type HeadlessFetcher struct {
	cfg    FetcherConfig
	gate   *gate.Gate
	logger *log.Logger
}

func NewHeadlessFetcher(cfg FetcherConfig, g *gate.Gate, logger *log.Logger) *HeadlessFetcher {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HeadlessFetcher{cfg: cfg, gate: g, logger: logger}
}

func (f *HeadlessFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f == nil {
		return "", fmt.Errorf("%w: nil fetcher", domain.ErrFetch)
	}
	u, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	release, err := f.gate.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer release()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if f.cfg.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(f.cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, f.cfg.Timeout)
	defer reqCancel()

	var status atomic.Int64
	chromedp.ListenTarget(reqCtx, func(ev interface{}) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
			return
		}
		status.CompareAndSwap(0, e.Response.Status)
	})

	start := time.Now()
	var html string
	err = chromedp.Run(reqCtx,
		network.Enable(),
		chromedp.Navigate(u.String()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	code := status.Load()
	if err != nil {
		f.logger.Printf("[Fetch] headless failed | host=%s status=%d elapsed=%s err=%v", u.Hostname(), code, time.Since(start), err)
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	if code != 0 && (code < 200 || code > 299) {
		f.logger.Printf("[Fetch] headless failed | host=%s status=%d elapsed=%s", u.Hostname(), code, time.Since(start))
		return "", fmt.Errorf("%w: status %d", domain.ErrFetch, code)
	}

	f.logger.Printf("[Fetch] headless ok | host=%s status=%d bytes=%d elapsed=%s", u.Hostname(), code, len(html), time.Since(start))
	return html, nil
}
