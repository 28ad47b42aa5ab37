package discovery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"referral-finder/internal/domain"
)

func newTestOrchestrator(d Discoverer) *Orchestrator {
	return NewOrchestrator(d, NewValidator(DefaultValidatorConfig(), quietLogger()), time.Second, quietLogger())
}

func TestOrchestrator_PrimarySuccess(t *testing.T) {
	d := &fakeDiscoverer{script: []scriptedReply{{text: validMatchesJSON}}}
	var transitions []State
	obs := ObserverFunc(func(_, to State) { transitions = append(transitions, to) })

	out, err := newTestOrchestrator(d).Run(context.Background(), RunInput{Prompt: "p", Company: "Acme", Observer: obs})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Matches) != 2 || out.UsedFallback {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(d.calls) != 1 || !d.calls[0].search {
		t.Fatalf("expected one search call, got %+v", d.calls)
	}
	want := []State{StateSearchAttempt, StateParse, StateValidate, StateSuccess}
	if !reflect.DeepEqual(transitions, want) {
		t.Fatalf("expected transitions %v, got %v", want, transitions)
	}
	if out.Trace[0] != StateInit {
		t.Fatalf("expected trace to start at INIT")
	}
	if len(out.Sources) != 1 {
		t.Fatalf("expected sources to be carried")
	}
}

func TestOrchestrator_ZeroValidFallsBackOnce(t *testing.T) {
	d := &fakeDiscoverer{script: []scriptedReply{
		{text: placeholderOnlyJSON},
		{text: validMatchesJSON},
	}}

	out, err := newTestOrchestrator(d).Run(context.Background(), RunInput{Prompt: "find", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(d.calls) != 2 {
		t.Fatalf("expected exactly two calls, got %d", len(d.calls))
	}
	if d.calls[1].search {
		t.Fatalf("expected fallback to run without search")
	}
	if !strings.HasPrefix(d.calls[1].prompt, "find") || !strings.Contains(d.calls[1].prompt, "REAL current employees") {
		t.Fatalf("expected fallback prompt with note, got %q", d.calls[1].prompt)
	}
	if !out.UsedFallback || len(out.Matches) != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(out.Rejections) != 1 || out.Rejections[0].Reason != ReasonPlaceholderProfileURL {
		t.Fatalf("expected primary rejection to be kept, got %+v", out.Rejections)
	}
}

func TestOrchestrator_InvocationErrorFallsBack(t *testing.T) {
	d := &fakeDiscoverer{script: []scriptedReply{
		{err: errors.New("503 from provider")},
		{text: validMatchesJSON},
	}}

	out, err := newTestOrchestrator(d).Run(context.Background(), RunInput{Prompt: "p", Company: "Acme"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.UsedFallback {
		t.Fatalf("expected fallback to be used")
	}
	want := []State{StateInit, StateSearchAttempt, StateFallbackAttempt, StateParse, StateValidate, StateSuccess}
	if !reflect.DeepEqual(out.Trace, want) {
		t.Fatalf("expected trace %v, got %v", want, out.Trace)
	}
}

func TestOrchestrator_BothZeroIsNotFound(t *testing.T) {
	d := &fakeDiscoverer{script: []scriptedReply{
		{text: placeholderOnlyJSON},
		{text: `{"matches": []}`},
	}}

	out, err := newTestOrchestrator(d).Run(context.Background(), RunInput{Prompt: "p", Company: "Acme"})
	if !errors.Is(err, domain.ErrNoValidMatches) {
		t.Fatalf("expected ErrNoValidMatches, got %v", err)
	}
	if len(d.calls) != 2 {
		t.Fatalf("expected exactly two calls, got %d", len(d.calls))
	}
	if out.Trace[len(out.Trace)-1] != StateFailure {
		t.Fatalf("expected FAILURE as last state, got %v", out.Trace)
	}
}

func TestOrchestrator_ParseErrorTakesPrecedence(t *testing.T) {
	d := &fakeDiscoverer{script: []scriptedReply{
		{text: "I cannot browse right now."},
		{text: `{"matches": []}`},
	}}

	_, err := newTestOrchestrator(d).Run(context.Background(), RunInput{Prompt: "p", Company: "Acme"})
	if !errors.Is(err, domain.ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got %v", err)
	}
}

func TestOrchestrator_FallbackInvocationFailure(t *testing.T) {
	d := &fakeDiscoverer{script: []scriptedReply{
		{text: placeholderOnlyJSON},
		{err: errors.New("timeout")},
	}}

	_, err := newTestOrchestrator(d).Run(context.Background(), RunInput{Prompt: "p", Company: "Acme"})
	if !errors.Is(err, domain.ErrModelInvocation) {
		t.Fatalf("expected ErrModelInvocation, got %v", err)
	}
	if len(d.calls) != 2 {
		t.Fatalf("expected no retries beyond the fallback, got %d calls", len(d.calls))
	}
}
