package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"referral-finder/internal/domain"
	"referral-finder/internal/gate"

	"github.com/gocolly/colly/v2"
)

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type FetcherConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

// CollyFetcher issues one GET per call. It never retries.
type CollyFetcher struct {
	cfg    FetcherConfig
	gate   *gate.Gate
	logger *log.Logger
}

func NewCollyFetcher(cfg FetcherConfig, g *gate.Gate, logger *log.Logger) *CollyFetcher {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &CollyFetcher{cfg: cfg, gate: g, logger: logger}
}

func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f == nil {
		return "", fmt.Errorf("%w: nil fetcher", domain.ErrFetch)
	}
	u, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, ctx.Err())
	}

	release, err := f.gate.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer release()

	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if f.cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(f.cfg.UserAgent))
	}
	if f.cfg.MaxBodyBytes > 0 {
		opts = append(opts, colly.MaxBodySize(f.cfg.MaxBodyBytes))
	}
	c := colly.NewCollector(opts...)
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(requestTimeout(ctx, f.cfg.Timeout))

	var (
		markup   string
		status   int
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		if status < 200 || status > 299 {
			fetchErr = fmt.Errorf("%w: status %d", domain.ErrFetch, status)
			return
		}
		markup = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		if fetchErr != nil {
			return
		}
		if r != nil && r.StatusCode != 0 {
			status = r.StatusCode
		}
		fetchErr = fmt.Errorf("%w: %v", domain.ErrFetch, err)
	})

	start := time.Now()
	if err := c.Visit(u.String()); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	c.Wait()

	if fetchErr != nil {
		f.logger.Printf("[Fetch] failed | host=%s status=%d elapsed=%s err=%v", u.Hostname(), status, time.Since(start), fetchErr)
		return "", fetchErr
	}

	f.logger.Printf("[Fetch] ok | host=%s status=%d bytes=%d elapsed=%s", u.Hostname(), status, len(markup), time.Since(start))
	return markup, nil
}

// requestTimeout never lets the transport outlive the caller's deadline.
func requestTimeout(ctx context.Context, def time.Duration) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return def
	}
	left := time.Until(dl)
	if left <= 0 {
		return time.Millisecond
	}
	if left < def {
		return left
	}
	return def
}
