package handler

import (
	"context"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/domain/bias"
	"skill-match/internal/domain/profile"
	"skill-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const defaultBiasLogLimit = 50

type biasUsecase interface {
	Audit(ctx context.Context, c profile.CandidateProfile, score float64, job profile.JobRequirements) (*bias.Entry, error)
	Report(ctx context.Context, windowDays int) (bias.Report, error)
	Metrics(ctx context.Context) bias.Metrics
	Entries(ctx context.Context, limit int) []bias.Entry
}

type BiasHandler struct {
	uc biasUsecase
}

func NewBiasHandler(uc biasUsecase) *BiasHandler {
	return &BiasHandler{uc: uc}
}

func (h *BiasHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/bias")
	grp.Post("/audits", h.Audit)
	grp.Get("/report", h.Report)
	grp.Get("/metrics", h.Metrics)
	grp.Get("/logs", h.Logs)
}

func (h *BiasHandler) Audit(c fiber.Ctx) error {
	var req dto.AuditRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("invalid request body", err)
	}
	if req.Score == nil {
		return badRequest("score is required", nil)
	}

	var job profile.JobRequirements
	if req.Job != nil {
		job = *req.Job
	}
	entry, err := h.uc.Audit(c.Context(), req.Candidate, *req.Score, job)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AuditResponse{Flagged: entry != nil, Entry: entry})
}

func (h *BiasHandler) Report(c fiber.Ctx) error {
	days, err := queryInt(c, "window_days", 0)
	if err != nil {
		return err
	}
	out, err := h.uc.Report(c.Context(), days)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *BiasHandler) Metrics(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Metrics(c.Context()))
}

func (h *BiasHandler) Logs(c fiber.Ctx) error {
	limit, err := queryInt(c, "limit", defaultBiasLogLimit)
	if err != nil {
		return err
	}
	if limit < 1 {
		return badRequest("limit must be positive", nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Entries(c.Context(), limit))
}
