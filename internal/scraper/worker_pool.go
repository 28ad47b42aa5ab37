package scraper

import (
	"context"
	"sync"
	"time"

	"referral-finder/internal/domain/job"
)

// JobExtractor is any backend that turns a posting URL into a job posting.
type JobExtractor interface {
	ExtractJob(ctx context.Context, rawURL string) (job.Posting, error)
}

type Result struct {
	URL     string
	Posting job.Posting
	Err     error
}

// WorkerPool runs extractions over a fixed number of workers with an optional start rate.
type WorkerPool struct {
	workers   int
	extractor JobExtractor
	urls      chan string
	wg        sync.WaitGroup
	mu        sync.RWMutex
	rate      <-chan time.Time
	ticker    *time.Ticker
}

func NewWorkerPool(extractor JobExtractor, workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers:   workers,
		extractor: extractor,
		urls:      make(chan string, buffer),
	}
}

func (p *WorkerPool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
	if rps <= 0 {
		return
	}
	interval := time.Second / time.Duration(rps)
	t := time.NewTicker(interval)
	p.mu.Lock()
	p.ticker = t
	p.rate = t.C
	p.mu.Unlock()
}

func (p *WorkerPool) Submit(rawURL string) {
	if p == nil || rawURL == "" {
		return
	}
	p.urls <- rawURL
}

// Close ends intake. Queued URLs are still processed; the rate ticker stops
// once every worker has returned.
func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	close(p.urls)
}

func (p *WorkerPool) stopTicker() {
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()
}

func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case u, ok := <-p.urls:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					posting, err := p.extractor.ExtractJob(ctx, u)
					select {
					case <-ctx.Done():
						return
					case out <- Result{URL: u, Posting: posting, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.stopTicker()
		close(out)
	}()

	return out
}
