package handler

import (
	"context"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/domain/profile"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type matchUsecase interface {
	ComputeMatch(ctx context.Context, c profile.CandidateProfile, job profile.JobRequirements) (usecase.MatchOutcome, error)
}

type MatchHandler struct {
	uc matchUsecase
}

func NewMatchHandler(uc matchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.ComputeMatch)
}

func (h *MatchHandler) ComputeMatch(c fiber.Ctx) error {
	var req dto.MatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("invalid request body", err)
	}

	out, err := h.uc.ComputeMatch(c.Context(), req.Candidate, req.Job)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
