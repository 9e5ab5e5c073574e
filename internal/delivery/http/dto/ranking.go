package dto

import (
	"time"

	"skill-match/internal/domain/profile"
	"skill-match/internal/domain/ranking"
	"skill-match/internal/domain/scoring"

	"github.com/google/uuid"
)

type ScoreItem struct {
	Source     string  `json:"source" validate:"required,max=64"`
	Score      float64 `json:"score" validate:"gte=0,lte=100"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

type CohortMemberRequest struct {
	CandidateID string             `json:"candidate_id" validate:"required,max=128"`
	PerSource   []ScoreItem        `json:"per_source" validate:"dive"`
	SubScores   map[string]float64 `json:"sub_scores"`
}

type RankCohortRequest struct {
	Members []CohortMemberRequest `json:"members" validate:"max=1000,dive"`
}

type RankCandidatesRequest struct {
	Job        profile.JobRequirements    `json:"job"`
	Candidates []profile.CandidateProfile `json:"candidates" validate:"max=1000"`
}

func (s ScoreItem) ToScore() scoring.Score {
	return scoring.Score{Source: scoring.Source(s.Source), Value: s.Score, Confidence: s.Confidence}
}

type RankingResponse struct {
	ID           uuid.UUID          `json:"id"`
	CandidateID  string             `json:"candidate_id"`
	JobID        string             `json:"job_id"`
	OverallScore float64            `json:"overall_score"`
	SubScores    map[string]float64 `json:"sub_scores"`
	Position     int                `json:"position"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewRankingResponse(r ranking.Ranking) RankingResponse {
	sub := r.SubScores
	if sub == nil {
		sub = map[string]float64{}
	}
	return RankingResponse{
		ID:           r.ID,
		CandidateID:  r.CandidateID,
		JobID:        r.JobID,
		OverallScore: r.OverallScore,
		SubScores:    sub,
		Position:     r.Position,
		UpdatedAt:    r.UpdatedAt,
	}
}

func NewRankingResponses(rs []ranking.Ranking) []RankingResponse {
	out := make([]RankingResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRankingResponse(r))
	}
	return out
}

type RankingListResponse struct {
	JobID    string            `json:"job_id"`
	Total    int               `json:"total"`
	Rankings []RankingResponse `json:"rankings"`
}
