package discovery

import (
	"fmt"
	"log"
	"strings"

	"referral-finder/internal/domain"
	"referral-finder/internal/domain/referral"
)

type RejectReason string

const (
	ReasonMissingName             RejectReason = "missing_name"
	ReasonInvalidProfileURL       RejectReason = "invalid_profile_url"
	ReasonMissingRelevance        RejectReason = "missing_relevance"
	ReasonMissingCommonalities    RejectReason = "missing_commonalities"
	ReasonMissingSuggestedMessage RejectReason = "missing_suggested_message"
	ReasonPlaceholderProfileURL   RejectReason = "placeholder_profile_url"
	ReasonCompanyNotInRelevance   RejectReason = "company_not_in_relevance"
)

type Rejection struct {
	Index      int
	Name       string
	ProfileURL string
	Reason     RejectReason
}

func (r Rejection) Err() error {
	return fmt.Errorf("%w: index=%d reason=%s", domain.ErrValidationRejected, r.Index, r.Reason)
}

type ValidatorConfig struct {
	ProfilePathSegment        string
	Denylist                  []string
	RequireCompanyInRelevance bool
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		ProfilePathSegment: "linkedin.com/in/",
		Denylist:           []string{"example", "fake", "test"},
	}
}

// Validator keeps only candidates that pass every rule, in their original order.
type Validator struct {
	cfg    ValidatorConfig
	logger *log.Logger
}

func NewValidator(cfg ValidatorConfig, logger *log.Logger) *Validator {
	if logger == nil {
		logger = log.Default()
	}
	if strings.TrimSpace(cfg.ProfilePathSegment) == "" {
		cfg.ProfilePathSegment = DefaultValidatorConfig().ProfilePathSegment
	}
	cfg.ProfilePathSegment = strings.ToLower(cfg.ProfilePathSegment)
	deny := make([]string, 0, len(cfg.Denylist))
	for _, d := range cfg.Denylist {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			deny = append(deny, d)
		}
	}
	cfg.Denylist = deny
	return &Validator{cfg: cfg, logger: logger}
}

func (v *Validator) Validate(cands []Candidate, company string) ([]referral.Match, []Rejection) {
	matches := make([]referral.Match, 0, len(cands))
	var rejected []Rejection

	for i, c := range cands {
		if reason, ok := v.check(c, company); !ok {
			r := Rejection{Index: i, Name: c.Name, ProfileURL: c.ProfileURL, Reason: reason}
			rejected = append(rejected, r)
			v.logger.Printf("[Discovery] candidate rejected | company=%q name=%q url=%q err=%v", company, c.Name, c.ProfileURL, r.Err())
			continue
		}
		matches = append(matches, referral.Match{
			Name:             c.Name,
			ProfileURL:       c.ProfileURL,
			Relevance:        c.Relevance,
			Commonalities:    c.Commonalities,
			SuggestedMessage: c.SuggestedMessage,
			ConnectionDegree: c.ConnectionDegree,
		})
	}

	v.logger.Printf("[Discovery] validation done | company=%q candidates=%d accepted=%d rejected=%d", company, len(cands), len(matches), len(rejected))
	return matches, rejected
}

func (v *Validator) check(c Candidate, company string) (RejectReason, bool) {
	lowerURL := strings.ToLower(c.ProfileURL)

	switch {
	case strings.TrimSpace(c.Name) == "":
		return ReasonMissingName, false
	case !strings.Contains(lowerURL, v.cfg.ProfilePathSegment):
		return ReasonInvalidProfileURL, false
	case strings.TrimSpace(c.Relevance) == "":
		return ReasonMissingRelevance, false
	case len(c.Commonalities) == 0:
		return ReasonMissingCommonalities, false
	case strings.TrimSpace(c.SuggestedMessage) == "":
		return ReasonMissingSuggestedMessage, false
	}

	for _, token := range v.cfg.Denylist {
		if strings.Contains(lowerURL, token) {
			return ReasonPlaceholderProfileURL, false
		}
	}

	if v.cfg.RequireCompanyInRelevance {
		co := strings.ToLower(strings.TrimSpace(company))
		if co != "" && !strings.Contains(strings.ToLower(c.Relevance), co) {
			return ReasonCompanyNotInRelevance, false
		}
	}

	return "", true
}
