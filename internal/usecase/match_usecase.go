package usecase

import (
	"context"
	"fmt"
	"time"

	"skill-match/internal/domain/matching"
	"skill-match/internal/domain/profile"
	"skill-match/internal/domain/scoring"
	"skill-match/internal/logger"

	"go.uber.org/zap"
)

type MatchOutcome struct {
	CandidateID     string                    `json:"candidate_id"`
	JobID           string                    `json:"job_id"`
	OverallScore    float64                   `json:"overall_score"`
	PerSource       []scoring.Score           `json:"per_source"`
	SubScores       map[string]float64        `json:"sub_scores"`
	MatchedSkills   []string                  `json:"matched_skills"`
	MissingSkills   []string                  `json:"missing_skills"`
	Gaps            []matching.Gap            `json:"gaps"`
	Recommendations []matching.Recommendation `json:"recommendations"`
	Required        []matching.SkillMatch     `json:"required"`
	Preferred       []matching.SkillMatch     `json:"preferred"`
	OntologyVersion string                    `json:"ontology_version"`
}

func (o MatchOutcome) Bundle() scoring.Bundle {
	return scoring.NewBundle(o.PerSource)
}

type MatchComputer interface {
	ComputeMatch(ctx context.Context, c profile.CandidateProfile, job profile.JobRequirements) (MatchOutcome, error)
}

type VersionedOntology interface {
	matching.Ontology
	Version() string
}

type ModelVersioner interface {
	Version() string
}

type MatchUsecase struct {
	matcher   *matching.Matcher
	onto      VersionedOntology
	models    ModelVersioner
	providers []scoring.Provider
	cache     MatchCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewMatchUsecase(onto VersionedOntology, providers []scoring.Provider, cache MatchCache, cacheTTL time.Duration, l *zap.Logger) *MatchUsecase {
	return &MatchUsecase{
		matcher:   matching.NewMatcher(onto),
		onto:      onto,
		providers: providers,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.OrNop(l).Named("match"),
	}
}

func (u *MatchUsecase) WithModels(m ModelVersioner) *MatchUsecase {
	u.models = m
	return u
}

func (u *MatchUsecase) ComputeMatch(ctx context.Context, c profile.CandidateProfile, job profile.JobRequirements) (MatchOutcome, error) {
	if err := c.Validate(); err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: candidate: %v", ErrInvalidInput, err)
	}
	if err := job.Validate(); err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: job: %v", ErrInvalidInput, err)
	}
	c, job = c.Normalized(), job.Normalized()

	version := u.onto.Version()
	modelVersion := ""
	if u.models != nil {
		modelVersion = u.models.Version()
	}
	key := MatchCacheKey(c, job, version, modelVersion)
	if u.cache != nil {
		var cached MatchOutcome
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	res := u.matcher.Match(c, job)
	in := scoring.Input{
		Candidate: c,
		Job:       job,
		Match:     res,
		Features:  matching.ExtractFeatures(c, job),
	}
	bundle := scoring.Collect(ctx, u.providers, in, u.logger)
	rs := matching.RuleBasedScore(c, job)

	out := MatchOutcome{
		CandidateID:     c.ID,
		JobID:           job.ID,
		OverallScore:    bundle.Overall,
		PerSource:       bundle.Scores(),
		SubScores:       map[string]float64{"skills": rs.Skills, "experience": rs.Experience, "education": rs.Education},
		MatchedSkills:   res.MatchedSkills,
		MissingSkills:   res.MissingSkills,
		Gaps:            res.Gaps,
		Recommendations: res.Recommendations,
		Required:        res.Required,
		Preferred:       res.Preferred,
		OntologyVersion: version,
	}

	u.logger.Debug("match computed",
		zap.String("candidate_id", c.ID),
		zap.String("job_id", job.ID),
		zap.Float64("overall_score", out.OverallScore),
		zap.Int("sources", len(out.PerSource)),
	)

	// a bundle missing a source is served once but never cached
	if len(out.PerSource) < len(u.providers) {
		u.logger.Debug("partial match not cached",
			zap.String("candidate_id", c.ID),
			zap.Int("sources", len(out.PerSource)),
			zap.Int("providers", len(u.providers)),
		)
		return out, nil
	}
	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, out, u.cacheTTL); err != nil {
			u.logger.Debug("match cache write failed", zap.Error(err))
		}
	}
	return out, nil
}
