package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"referral-finder/internal/discovery"
	"referral-finder/internal/domain"
	"referral-finder/internal/domain/job"
	"referral-finder/internal/domain/profile"
	"referral-finder/internal/domain/referral"
	"referral-finder/internal/repository"

	"github.com/google/uuid"
)

const manualDescriptionLimit = 2000

type DiscoverInput struct {
	RequesterID    uuid.UUID
	JobTitle       string
	Company        string
	JobDescription string
	JobURL         string
}

type DiscoverResult struct {
	SearchID uuid.UUID
	Matches  []referral.Match
}

type ReferralUsecase interface {
	Discover(ctx context.Context, in DiscoverInput) (DiscoverResult, error)
}

type discoveryRunner interface {
	Run(ctx context.Context, in discovery.RunInput) (discovery.Outcome, error)
}

// TransitionNotifier receives orchestrator state changes for one requester.
type TransitionNotifier interface {
	PipelineState(requesterID uuid.UUID, from, to string)
}

type Referral struct {
	profiles       profile.Repository
	searches       repository.SearchRepository
	runner         discoveryRunner
	notifier       TransitionNotifier
	requestTimeout time.Duration
	logger         *log.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewReferralUsecase(
	profiles profile.Repository,
	searches repository.SearchRepository,
	runner discoveryRunner,
	notifier TransitionNotifier,
	requestTimeout time.Duration,
	logger *log.Logger,
) *Referral {
	if logger == nil {
		logger = log.Default()
	}
	return &Referral{
		profiles:       profiles,
		searches:       searches,
		runner:         runner,
		notifier:       notifier,
		requestTimeout: requestTimeout,
		logger:         logger,
		now:            time.Now,
		newID:          uuid.New,
	}
}

func (u *Referral) Discover(ctx context.Context, in DiscoverInput) (DiscoverResult, error) {
	title := strings.TrimSpace(in.JobTitle)
	company := strings.TrimSpace(in.Company)
	description := strings.TrimSpace(in.JobDescription)
	if title == "" || company == "" || description == "" {
		return DiscoverResult{}, ErrInvalidInput
	}
	if in.RequesterID == uuid.Nil {
		return DiscoverResult{}, fmt.Errorf("%w: missing requester", ErrInvalidInput)
	}

	rec, err := u.profiles.GetByUserID(ctx, in.RequesterID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return DiscoverResult{}, ErrProfileIncomplete
		}
		return DiscoverResult{}, fmt.Errorf("%w: load profile: %v", ErrInternal, err)
	}
	if !rec.Completed {
		return DiscoverResult{}, ErrProfileIncomplete
	}

	if u.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.requestTimeout)
		defer cancel()
	}

	posting := job.Posting{
		Title:       title,
		Company:     company,
		Description: truncateRunes(description, manualDescriptionLimit),
		SourceURL:   strings.TrimSpace(in.JobURL),
	}

	started := u.now()
	outcome, err := u.runner.Run(ctx, discovery.RunInput{
		Prompt:   discovery.BuildPrompt(rec.Profile, posting),
		Company:  company,
		Observer: u.observerFor(in.RequesterID),
	})
	if err != nil {
		u.logger.Printf("[Referral] discovery failed | requester=%s company=%q rejected=%d err=%v", in.RequesterID, company, len(outcome.Rejections), err)
		return DiscoverResult{}, err
	}
	if len(outcome.Matches) == 0 {
		return DiscoverResult{}, domain.ErrNoValidMatches
	}

	record := referral.SearchRecord{
		ID:           u.newID(),
		RequesterID:  in.RequesterID,
		Job:          posting,
		Matches:      outcome.Matches,
		Sources:      outcome.Sources,
		UsedFallback: outcome.UsedFallback,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.searches.Save(ctx, record); err != nil {
		u.logger.Printf("[Referral] persist failed | search_id=%s err=%v", record.ID, err)
		return DiscoverResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	u.logger.Printf("[Referral] done | search_id=%s requester=%s matches=%d rejected=%d fallback=%t latency=%s",
		record.ID, in.RequesterID, len(record.Matches), len(outcome.Rejections), outcome.UsedFallback, u.now().Sub(started))

	return DiscoverResult{SearchID: record.ID, Matches: record.Matches}, nil
}

func (u *Referral) observerFor(requesterID uuid.UUID) discovery.Observer {
	if u.notifier == nil {
		return nil
	}
	return discovery.ObserverFunc(func(from, to discovery.State) {
		u.notifier.PipelineState(requesterID, string(from), string(to))
	})
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
