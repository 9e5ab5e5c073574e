package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"skill-match/internal/domain/profile"
)

type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type matchCacheKeyInput struct {
	Candidate profile.CandidateProfile `json:"candidate"`
	Job       profile.JobRequirements  `json:"job"`
	Ontology  string                   `json:"ontology"`
	Models    string                   `json:"models"`
}

func MatchCacheKey(c profile.CandidateProfile, j profile.JobRequirements, ontologyVersion, modelVersion string) string {
	in := matchCacheKeyInput{
		Candidate: c.Normalized(),
		Job:       j.Normalized(),
		Ontology:  ontologyVersion,
		Models:    modelVersion,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "match:" + hex.EncodeToString(sum[:])
}
