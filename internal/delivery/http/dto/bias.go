package dto

import (
	"skill-match/internal/domain/bias"
	"skill-match/internal/domain/profile"
)

type AuditRequest struct {
	Candidate profile.CandidateProfile `json:"candidate"`
	Job       *profile.JobRequirements `json:"job" validate:"omitempty"`
	Score     *float64                 `json:"score" validate:"required"`
}

type AuditResponse struct {
	Flagged bool        `json:"flagged"`
	Entry   *bias.Entry `json:"entry"`
}
