package dto

import "referral-finder/internal/domain/job"

type ExtractJobRequest struct {
	URL string `json:"url"`
}

type ExtractJobResponse struct {
	Job job.Posting `json:"job"`
}
