package dto

import (
	"referral-finder/internal/domain/referral"

	"github.com/google/uuid"
)

type DiscoverReferralsRequest struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl"`
}

type DiscoverReferralsResponse struct {
	Matches  []referral.Match `json:"matches"`
	SearchID uuid.UUID        `json:"searchId"`
}
