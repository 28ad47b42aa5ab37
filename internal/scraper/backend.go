package scraper

import (
	"context"
	"errors"
	"log"

	"referral-finder/internal/domain"
	"referral-finder/internal/domain/job"
)

// SelectorBackend fetches the page and runs the site profiles over it.
type SelectorBackend struct {
	fetcher   Fetcher
	extractor *Extractor
	logger    *log.Logger
}

func NewSelectorBackend(fetcher Fetcher, extractor *Extractor, logger *log.Logger) *SelectorBackend {
	if logger == nil {
		logger = log.Default()
	}
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &SelectorBackend{fetcher: fetcher, extractor: extractor, logger: logger}
}

func (b *SelectorBackend) ExtractJob(ctx context.Context, rawURL string) (job.Posting, error) {
	markup, err := b.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return job.Posting{SourceURL: rawURL}, err
	}

	posting, err := b.extractor.Extract(markup, rawURL)
	profile := b.extractor.ProfileFor(rawURL)
	if errors.Is(err, domain.ErrExtractionLowConfidence) {
		b.logger.Printf("[Extract] low confidence | host=%s profile=%s title=%t company=%t", hostOf(rawURL), profile.Name, posting.Title != "", posting.Company != "")
		return posting, err
	}
	if err != nil {
		return posting, err
	}

	b.logger.Printf("[Extract] ok | host=%s profile=%s description_chars=%d", hostOf(rawURL), profile.Name, len([]rune(posting.Description)))
	return posting, nil
}
