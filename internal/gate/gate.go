package gate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var ErrQuotaExceeded = errors.New("quota exceeded")

// WindowCounter counts calls in a fixed window shared across processes.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Options struct {
	MaxConcurrency    int64
	RatePerSecond     float64
	RequestsPerMinute int
	Counter           WindowCounter
	Logger            *log.Logger
}

// Gate bounds calls to one external dependency. A nil *Gate admits everything.
type Gate struct {
	name      string
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
	counter   WindowCounter
	perMinute int
	logger    *log.Logger
	now       func() time.Time
}

func New(name string, opts Options) *Gate {
	g := &Gate{
		name:      name,
		counter:   opts.Counter,
		perMinute: opts.RequestsPerMinute,
		logger:    opts.Logger,
		now:       time.Now,
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	if opts.MaxConcurrency > 0 {
		g.sem = semaphore.NewWeighted(opts.MaxConcurrency)
	}
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return g
}

func (g *Gate) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Acquire blocks until the call may proceed. The returned release must be called once.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if g == nil {
		return func() {}, nil
	}

	if g.counter != nil && g.perMinute > 0 {
		key := fmt.Sprintf("gate:%s:%d", g.name, g.now().UTC().Unix()/60)
		n, err := g.counter.IncrWindow(ctx, key, time.Minute)
		if err != nil {
			g.logger.Printf("[Gate] quota check skipped | gate=%s err=%v", g.name, err)
		} else if n > int64(g.perMinute) {
			return nil, fmt.Errorf("%w: gate=%s limit=%d/min", ErrQuotaExceeded, g.name, g.perMinute)
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if g.sem == nil {
		return func() {}, nil
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { g.sem.Release(1) }, nil
}

// Do runs fn while holding the gate.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	release, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
