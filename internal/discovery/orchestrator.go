package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"referral-finder/internal/domain"
	"referral-finder/internal/domain/referral"
)

type State string

const (
	StateInit            State = "INIT"
	StateSearchAttempt   State = "SEARCH_ATTEMPT"
	StateParse           State = "PARSE"
	StateValidate        State = "VALIDATE"
	StateFallbackAttempt State = "FALLBACK_ATTEMPT"
	StateSuccess         State = "SUCCESS"
	StateFailure         State = "FAILURE"
)

type Observer interface {
	OnTransition(from, to State)
}

type ObserverFunc func(from, to State)

func (f ObserverFunc) OnTransition(from, to State) { f(from, to) }

type RunInput struct {
	Prompt   string
	Company  string
	Observer Observer
}

type Outcome struct {
	Matches      []referral.Match
	Rejections   []Rejection
	Sources      []string
	UsedFallback bool
	Trace        []State
}

// Orchestrator runs one search-augmented attempt and, when it yields nothing usable,
// exactly one plain fallback attempt.
type Orchestrator struct {
	client         Discoverer
	validator      *Validator
	attemptTimeout time.Duration
	logger         *log.Logger
}

func NewOrchestrator(client Discoverer, validator *Validator, attemptTimeout time.Duration, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	if validator == nil {
		validator = NewValidator(DefaultValidatorConfig(), logger)
	}
	return &Orchestrator{client: client, validator: validator, attemptTimeout: attemptTimeout, logger: logger}
}

type run struct {
	state    State
	trace    []State
	observer Observer
	logger   *log.Logger
}

func (r *run) to(next State) {
	prev := r.state
	r.state = next
	r.trace = append(r.trace, next)
	r.logger.Printf("[Discovery] state %s -> %s", prev, next)
	if r.observer != nil {
		r.observer.OnTransition(prev, next)
	}
}

type attemptResult struct {
	matches    []referral.Match
	rejections []Rejection
	sources    []string
	err        error
}

func (o *Orchestrator) Run(ctx context.Context, in RunInput) (Outcome, error) {
	r := &run{state: StateInit, trace: []State{StateInit}, observer: in.Observer, logger: o.logger}
	var out Outcome

	r.to(StateSearchAttempt)
	primary := o.attempt(ctx, r, in.Prompt, true, in.Company)
	out.Rejections = append(out.Rejections, primary.rejections...)
	if primary.err == nil {
		out.Matches = primary.matches
		out.Sources = primary.sources
		r.to(StateSuccess)
		out.Trace = r.trace
		return out, nil
	}
	o.logger.Printf("[Discovery] search attempt unusable, falling back | company=%q err=%v", in.Company, primary.err)

	r.to(StateFallbackAttempt)
	out.UsedFallback = true
	fallback := o.attempt(ctx, r, FallbackPrompt(in.Prompt), false, in.Company)
	out.Rejections = append(out.Rejections, fallback.rejections...)
	if fallback.err == nil {
		out.Matches = fallback.matches
		out.Sources = fallback.sources
		r.to(StateSuccess)
		out.Trace = r.trace
		return out, nil
	}

	r.to(StateFailure)
	out.Trace = r.trace
	err := finalError(primary.err, fallback.err)
	o.logger.Printf("[Discovery] failed | company=%q err=%v", in.Company, err)
	return out, err
}

func (o *Orchestrator) attempt(ctx context.Context, r *run, prompt string, search bool, company string) attemptResult {
	actx := ctx
	if o.attemptTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, o.attemptTimeout)
		defer cancel()
	}

	resp, err := o.client.Discover(actx, prompt, search)
	if err != nil {
		if !errors.Is(err, domain.ErrModelInvocation) {
			err = fmt.Errorf("%w: %v", domain.ErrModelInvocation, err)
		}
		return attemptResult{err: err}
	}

	r.to(StateParse)
	cands, err := ParseCandidates(resp.Text)
	if err != nil {
		return attemptResult{err: err, sources: resp.Sources}
	}

	r.to(StateValidate)
	matches, rejections := o.validator.Validate(cands, company)
	res := attemptResult{matches: matches, rejections: rejections, sources: resp.Sources}
	if len(matches) == 0 {
		res.err = fmt.Errorf("%w: %d candidates, all rejected", domain.ErrNoValidMatches, len(cands))
	}
	return res
}

// finalError reports the fallback failure, except that a primary parse failure wins over
// a fallback that simply found nobody.
func finalError(primary, fallback error) error {
	if errors.Is(fallback, domain.ErrNoValidMatches) && errors.Is(primary, domain.ErrResponseParse) {
		return primary
	}
	return fallback
}
