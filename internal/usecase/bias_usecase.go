package usecase

import (
	"context"
	"fmt"
	"math"

	"skill-match/internal/domain/bias"
	"skill-match/internal/domain/profile"
)

const maxWindowDays = 365

type BiasUsecase struct {
	auditor *bias.Auditor
}

func NewBiasUsecase(a *bias.Auditor) *BiasUsecase {
	return &BiasUsecase{auditor: a}
}

func (u *BiasUsecase) Audit(_ context.Context, c profile.CandidateProfile, score float64, job profile.JobRequirements) (*bias.Entry, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: candidate: %v", ErrInvalidInput, err)
	}
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score must be within [0,100]", ErrInvalidInput)
	}
	return u.auditor.Audit(c, score, job), nil
}

func (u *BiasUsecase) Report(_ context.Context, windowDays int) (bias.Report, error) {
	if windowDays < 0 || windowDays > maxWindowDays {
		return bias.Report{}, fmt.Errorf("%w: window_days must be within [0,%d]", ErrInvalidInput, maxWindowDays)
	}
	return u.auditor.Report(windowDays), nil
}

func (u *BiasUsecase) Metrics(_ context.Context) bias.Metrics {
	return u.auditor.Metrics()
}

func (u *BiasUsecase) Entries(_ context.Context, limit int) []bias.Entry {
	all := u.auditor.Entries()
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]bias.Entry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out
}
