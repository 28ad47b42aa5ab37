package domain

import (
	"errors"

	"referral-finder/internal/domain/job"
)

var (
	ErrFetch                   = errors.New("fetch failed")
	ErrExtractionLowConfidence = errors.New("extraction low confidence")
	ErrModelInvocation         = errors.New("model invocation failed")
	ErrResponseParse           = errors.New("response parse failed")
	ErrValidationRejected      = errors.New("candidate rejected")
	ErrPersistence             = errors.New("persistence failed")
	ErrNoValidMatches          = errors.New("no valid matches")
)

// LowConfidenceError carries whatever was recovered when title or company is missing.
type LowConfidenceError struct {
	Partial job.Posting
}

func NewLowConfidenceError(partial job.Posting) *LowConfidenceError {
	return &LowConfidenceError{Partial: partial}
}

func (e *LowConfidenceError) Error() string {
	if e == nil {
		return ErrExtractionLowConfidence.Error()
	}
	missing := ""
	switch {
	case e.Partial.Title == "" && e.Partial.Company == "":
		missing = "title, company"
	case e.Partial.Title == "":
		missing = "title"
	case e.Partial.Company == "":
		missing = "company"
	}
	if missing == "" {
		return ErrExtractionLowConfidence.Error()
	}
	return ErrExtractionLowConfidence.Error() + ": missing " + missing
}

func (e *LowConfidenceError) Unwrap() error {
	return ErrExtractionLowConfidence
}

// PartialPosting returns the partial posting carried by err, if any.
func PartialPosting(err error) (job.Posting, bool) {
	var lc *LowConfidenceError
	if errors.As(err, &lc) && lc != nil {
		return lc.Partial, true
	}
	return job.Posting{}, false
}
