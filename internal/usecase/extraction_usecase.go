package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"referral-finder/internal/domain/job"
	"referral-finder/internal/scraper"
)

type ExtractionUsecase interface {
	Extract(ctx context.Context, rawURL string) (job.Posting, error)
}

type Extraction struct {
	backend  scraper.JobExtractor
	cache    ExtractionCache
	cacheTTL time.Duration
	logger   *log.Logger
}

func NewExtractionUsecase(backend scraper.JobExtractor, logger *log.Logger) *Extraction {
	if logger == nil {
		logger = log.Default()
	}
	return &Extraction{backend: backend, logger: logger}
}

// WithCache remembers complete postings for ttl. Failures are never cached.
func (u *Extraction) WithCache(cache ExtractionCache, ttl time.Duration) *Extraction {
	u.cache = cache
	u.cacheTTL = ttl
	return u
}

// Extract returns the posting or one of the domain extraction errors unchanged,
// so callers can offer manual entry on ErrFetch and ErrExtractionLowConfidence.
func (u *Extraction) Extract(ctx context.Context, rawURL string) (job.Posting, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return job.Posting{}, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	if u == nil || u.backend == nil {
		return job.Posting{}, fmt.Errorf("%w: extraction backend not configured", ErrInternal)
	}

	useCache := u.cache != nil && u.cacheTTL > 0
	key := ExtractionCacheKey(rawURL)
	if useCache {
		var cached job.Posting
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Printf("[Extract] cache read failed | url=%s err=%v", rawURL, err)
		}
		if hit && cached.Complete() {
			u.logger.Printf("[Extract] cache hit | url=%s", rawURL)
			return cached, nil
		}
	}

	p, err := u.backend.ExtractJob(ctx, rawURL)
	if err != nil {
		u.logger.Printf("[Extract] failed | url=%s err=%v", rawURL, err)
		return p, err
	}

	if useCache {
		if err := u.cache.SetJSON(ctx, key, p, u.cacheTTL); err != nil {
			u.logger.Printf("[Extract] cache write failed | url=%s err=%v", rawURL, err)
		}
	}
	return p, nil
}
