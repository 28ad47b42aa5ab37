package handler

import (
	"errors"

	"referral-finder/internal/delivery/http/dto"
	"referral-finder/internal/delivery/http/middleware"
	"referral-finder/internal/domain"
	"referral-finder/internal/pkg/response"
	"referral-finder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	msgURLRequired    = "URL is required"
	msgExtractLowConf = "Could not extract job details from URL. Please enter them manually."
	msgExtractFailed  = "Failed to scrape job details. Please enter them manually."
)

type JobHandler struct {
	uc usecase.ExtractionUsecase
}

func NewJobHandler(uc usecase.ExtractionUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/jobs/extract", h.Extract)
}

func (h *JobHandler) Extract(c fiber.Ctx) error {
	var req dto.ExtractJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgURLRequired, nil, err)
	}

	posting, err := h.uc.Extract(c.Context(), req.URL)
	if err != nil {
		return mapExtractionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, dto.ExtractJobResponse{Job: posting})
}

func mapExtractionUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, msgURLRequired, nil, err)
	case errors.Is(err, domain.ErrExtractionLowConfidence):
		partial, _ := domain.PartialPosting(err)
		return middleware.NewAppError(fiber.StatusBadRequest, msgExtractLowConf, partial, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, msgExtractFailed, nil, err)
	}
}
