package dto

import "skill-match/internal/domain/profile"

type MatchRequest struct {
	Candidate profile.CandidateProfile `json:"candidate"`
	Job       profile.JobRequirements  `json:"job"`
}
