package referral

import (
	"time"

	"referral-finder/internal/domain/job"

	"github.com/google/uuid"
)

// Match is a candidate that passed every validation rule.
type Match struct {
	Name             string   `json:"name"`
	ProfileURL       string   `json:"profileUrl"`
	Relevance        string   `json:"relevance"`
	Commonalities    []string `json:"commonalities"`
	SuggestedMessage string   `json:"suggestedMessage"`
	ConnectionDegree string   `json:"connectionDegree,omitempty"`
}

type SearchRecord struct {
	ID           uuid.UUID   `json:"id"`
	RequesterID  uuid.UUID   `json:"requesterId"`
	Job          job.Posting `json:"job"`
	Matches      []Match     `json:"matches"`
	Sources      []string    `json:"sources,omitempty"`
	UsedFallback bool        `json:"usedFallback"`
	CreatedAt    time.Time   `json:"createdAt"`
}
