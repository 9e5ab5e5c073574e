package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skill-match/internal/domain/bias"
	"skill-match/internal/domain/profile"
	"skill-match/internal/domain/ranking"
	"skill-match/internal/domain/scoring"
	"skill-match/internal/logger"
	"skill-match/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxCohortSize      = 1000
	rankParallelism    = 8
	defaultRankingList = 100
)

type CohortMember struct {
	Candidate profile.CandidateProfile
	Bundle    scoring.Bundle
	SubScores map[string]float64
}

type RankingNotifier interface {
	NotifyRankingsUpdated(jobID string, rankings []ranking.Ranking)
}

type Auditor interface {
	Audit(c profile.CandidateProfile, score float64, job profile.JobRequirements) *bias.Entry
}

type RankedCohort struct {
	Rankings []ranking.Ranking `json:"rankings"`
	Matches  []MatchOutcome    `json:"matches"`
	Flagged  []bias.Entry      `json:"bias_flags"`
}

type RankingUsecase struct {
	repo     repository.RankingRepository
	matches  MatchComputer
	auditor  Auditor
	notifier RankingNotifier
	logger   *zap.Logger
}

func NewRankingUsecase(repo repository.RankingRepository, matches MatchComputer, auditor Auditor, notifier RankingNotifier, l *zap.Logger) *RankingUsecase {
	return &RankingUsecase{
		repo:     repo,
		matches:  matches,
		auditor:  auditor,
		notifier: notifier,
		logger:   logger.OrNop(l).Named("ranking"),
	}
}

func (u *RankingUsecase) RankCohort(ctx context.Context, jobID string, members []CohortMember) ([]ranking.Ranking, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	if len(members) > maxCohortSize {
		return nil, fmt.Errorf("%w: cohort larger than %d", ErrInvalidInput, maxCohortSize)
	}
	for _, m := range members {
		if strings.TrimSpace(m.Candidate.ID) == "" {
			return nil, fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
		}
	}

	for _, m := range members {
		_, err := u.repo.Upsert(ctx, ranking.Ranking{
			CandidateID:  strings.TrimSpace(m.Candidate.ID),
			JobID:        jobID,
			OverallScore: m.Bundle.Overall,
			SubScores:    subScores(m),
		})
		if err != nil {
			if errors.Is(err, repository.ErrInvalidRanking) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			u.logger.Error("ranking upsert failed", zap.String("job_id", jobID), zap.String("candidate_id", m.Candidate.ID), zap.Error(err))
			return nil, ErrInternal
		}
	}

	out, err := u.repo.Reorder(ctx, jobID)
	if errors.Is(err, ranking.ErrEmptyCohort) {
		return []ranking.Ranking{}, nil
	}
	if err != nil {
		u.logger.Error("ranking reorder failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, ErrInternal
	}

	if u.notifier != nil {
		u.notifier.NotifyRankingsUpdated(jobID, out)
	}
	u.logger.Info("cohort ranked", zap.String("job_id", jobID), zap.Int("upserted", len(members)), zap.Int("cohort", len(out)))
	return out, nil
}

func (u *RankingUsecase) RankCandidates(ctx context.Context, job profile.JobRequirements, candidates []profile.CandidateProfile) (RankedCohort, error) {
	if u.matches == nil {
		return RankedCohort{}, ErrInternal
	}
	if len(candidates) > maxCohortSize {
		return RankedCohort{}, fmt.Errorf("%w: cohort larger than %d", ErrInvalidInput, maxCohortSize)
	}

	outcomes := make([]MatchOutcome, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankParallelism)
	for i, c := range candidates {
		g.Go(func() error {
			o, err := u.matches.ComputeMatch(gctx, c, job)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RankedCohort{}, err
	}

	members := make([]CohortMember, 0, len(candidates))
	for i, c := range candidates {
		members = append(members, CohortMember{Candidate: c, Bundle: outcomes[i].Bundle(), SubScores: outcomes[i].SubScores})
	}
	rankings, err := u.RankCohort(ctx, job.ID, members)
	if err != nil {
		return RankedCohort{}, err
	}

	out := RankedCohort{Rankings: rankings, Matches: outcomes, Flagged: []bias.Entry{}}
	if u.auditor != nil {
		for i, c := range candidates {
			if e := u.auditor.Audit(c, outcomes[i].OverallScore, job); e != nil {
				out.Flagged = append(out.Flagged, *e)
			}
		}
	}
	return out, nil
}

func (u *RankingUsecase) ListRankings(ctx context.Context, jobID string, limit int) ([]ranking.Ranking, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}
	if limit == 0 || limit > maxCohortSize {
		limit = defaultRankingList
	}
	out, err := u.repo.ListByJob(ctx, jobID, limit)
	if err != nil {
		u.logger.Error("ranking list failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}

func (u *RankingUsecase) GetRanking(ctx context.Context, candidateID, jobID string) (ranking.Ranking, error) {
	candidateID, jobID = strings.TrimSpace(candidateID), strings.TrimSpace(jobID)
	if candidateID == "" || jobID == "" {
		return ranking.Ranking{}, fmt.Errorf("%w: candidate id and job id are required", ErrInvalidInput)
	}
	out, err := u.repo.Get(ctx, candidateID, jobID)
	if errors.Is(err, ranking.ErrNotFound) {
		return ranking.Ranking{}, ErrNotFound
	}
	if err != nil {
		u.logger.Error("ranking get failed", zap.String("job_id", jobID), zap.String("candidate_id", candidateID), zap.Error(err))
		return ranking.Ranking{}, ErrInternal
	}
	return out, nil
}

func subScores(m CohortMember) map[string]float64 {
	out := make(map[string]float64, len(m.SubScores)+len(m.Bundle.Sources))
	for k, v := range m.SubScores {
		out[k] = v
	}
	for src, s := range m.Bundle.Sources {
		out["source:"+string(src)] = s.Value
	}
	return out
}
