package handler

import (
	"context"
	"strings"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/domain/profile"
	"skill-match/internal/domain/ranking"
	"skill-match/internal/domain/scoring"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type rankingUsecase interface {
	RankCohort(ctx context.Context, jobID string, members []usecase.CohortMember) ([]ranking.Ranking, error)
	RankCandidates(ctx context.Context, job profile.JobRequirements, candidates []profile.CandidateProfile) (usecase.RankedCohort, error)
	ListRankings(ctx context.Context, jobID string, limit int) ([]ranking.Ranking, error)
	GetRanking(ctx context.Context, candidateID, jobID string) (ranking.Ranking, error)
}

type RankingHandler struct {
	uc rankingUsecase
}

func NewRankingHandler(uc rankingUsecase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

func (h *RankingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs/:job_id/rankings")
	grp.Post("", h.RankCohort)
	grp.Post("/compute", h.RankCandidates)
	grp.Get("", h.ListRankings)
	grp.Get("/:candidate_id", h.GetRanking)
}

func (h *RankingHandler) RankCohort(c fiber.Ctx) error {
	var req dto.RankCohortRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("invalid request body", err)
	}
	if err := dto.Validate(req); err != nil {
		return badRequest(err.Error(), err)
	}

	members := make([]usecase.CohortMember, 0, len(req.Members))
	for _, m := range req.Members {
		scores := make([]scoring.Score, 0, len(m.PerSource))
		seen := make(map[string]struct{}, len(m.PerSource))
		for _, s := range m.PerSource {
			if _, dup := seen[s.Source]; dup {
				return badRequest("duplicate score source "+s.Source+" for "+m.CandidateID, nil)
			}
			seen[s.Source] = struct{}{}
			scores = append(scores, s.ToScore())
		}
		members = append(members, usecase.CohortMember{
			Candidate: profile.CandidateProfile{ID: m.CandidateID},
			Bundle:    scoring.NewBundle(scores),
			SubScores: m.SubScores,
		})
	}

	jobID := c.Params("job_id")
	out, err := h.uc.RankCohort(c.Context(), jobID, members)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RankingListResponse{
		JobID:    strings.TrimSpace(jobID),
		Total:    len(out),
		Rankings: dto.NewRankingResponses(out),
	})
}

func (h *RankingHandler) RankCandidates(c fiber.Ctx) error {
	var req dto.RankCandidatesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("invalid request body", err)
	}

	jobID := strings.TrimSpace(c.Params("job_id"))
	switch strings.TrimSpace(req.Job.ID) {
	case "":
		req.Job.ID = jobID
	case jobID:
	default:
		return badRequest("job.id does not match path", nil)
	}
	if err := dto.Validate(req); err != nil {
		return badRequest(err.Error(), err)
	}

	out, err := h.uc.RankCandidates(c.Context(), req.Job, req.Candidates)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"job_id":     jobID,
		"total":      len(out.Rankings),
		"rankings":   dto.NewRankingResponses(out.Rankings),
		"matches":    out.Matches,
		"bias_flags": out.Flagged,
	})
}

func (h *RankingHandler) ListRankings(c fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	jobID := c.Params("job_id")
	out, err := h.uc.ListRankings(c.Context(), jobID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RankingListResponse{
		JobID:    strings.TrimSpace(jobID),
		Total:    len(out),
		Rankings: dto.NewRankingResponses(out),
	})
}

func (h *RankingHandler) GetRanking(c fiber.Ctx) error {
	out, err := h.uc.GetRanking(c.Context(), c.Params("candidate_id"), c.Params("job_id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRankingResponse(out))
}
