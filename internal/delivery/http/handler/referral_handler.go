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
	msgReferralFieldsRequired = "Job title, company, and description are required"
	msgProfileIncomplete      = "Please complete your profile first"
	msgNoMatches              = "No valid referral matches found"
	msgReferralFailed         = "Failed to find referral matches"
)

type ReferralHandler struct {
	uc usecase.ReferralUsecase
}

func NewReferralHandler(uc usecase.ReferralUsecase) *ReferralHandler {
	return &ReferralHandler{uc: uc}
}

// RegisterRoutes expects r to be behind AuthMiddleware.
func (h *ReferralHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/referrals", h.Discover)
}

func (h *ReferralHandler) Discover(c fiber.Ctx) error {
	requesterID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.DiscoverReferralsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgReferralFieldsRequired, nil, err)
	}

	res, err := h.uc.Discover(c.Context(), usecase.DiscoverInput{
		RequesterID:    requesterID,
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
		JobURL:         req.JobURL,
	})
	if err != nil {
		return mapReferralUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, dto.DiscoverReferralsResponse{Matches: res.Matches, SearchID: res.SearchID})
}

func mapReferralUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, msgReferralFieldsRequired, nil, err)
	case errors.Is(err, usecase.ErrProfileIncomplete):
		return middleware.NewAppError(fiber.StatusBadRequest, msgProfileIncomplete, nil, err)
	case errors.Is(err, domain.ErrNoValidMatches):
		return middleware.NewAppError(fiber.StatusNotFound, msgNoMatches, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, msgReferralFailed, nil, err)
	}
}
