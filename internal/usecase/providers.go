package usecase

import (
	"context"
	"time"

	"skill-match/internal/domain/matching"
	"skill-match/internal/domain/mlmodel"
	"skill-match/internal/domain/profile"
	"skill-match/internal/domain/scoring"
	"skill-match/internal/infrastructure/llm"
)

type LLMAssessor interface {
	Assess(ctx context.Context, c profile.CandidateProfile, job profile.JobRequirements) (llm.Assessment, error)
}

func RuleBasedProvider() scoring.Provider {
	return scoring.ProviderFunc{
		Name: scoring.SourceRuleBased,
		Fn: func(_ context.Context, in scoring.Input) (scoring.Score, error) {
			rs := matching.RuleBasedScore(in.Candidate, in.Job)
			return scoring.Score{Value: rs.Overall, Confidence: matching.RuleBasedConfidence}, nil
		},
	}
}

func OntologyProvider() scoring.Provider {
	return scoring.ProviderFunc{
		Name: scoring.SourceOntology,
		Fn: func(_ context.Context, in scoring.Input) (scoring.Score, error) {
			return scoring.Score{Value: in.Match.Score, Confidence: in.Match.Confidence}, nil
		},
	}
}

func MLProvider(p *mlmodel.Predictor) scoring.Provider {
	return scoring.ProviderFunc{
		Name: scoring.SourceML,
		Fn: func(_ context.Context, in scoring.Input) (scoring.Score, error) {
			pred := p.Predict(in.Features)
			return scoring.Score{Value: pred.Score, Confidence: pred.Confidence}, nil
		},
	}
}

// DefaultLLMTimeout bounds the llm source when no positive timeout is given.
var DefaultLLMTimeout = 5 * time.Second

// LLMProvider is always bounded; a slow or failing model is dropped from the
// bundle by scoring.Collect.
func LLMProvider(a LLMAssessor, timeout time.Duration) scoring.Provider {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return scoring.WithTimeout(scoring.ProviderFunc{
		Name: scoring.SourceLLM,
		Fn: func(ctx context.Context, in scoring.Input) (scoring.Score, error) {
			res, err := a.Assess(ctx, in.Candidate, in.Job)
			if err != nil {
				return scoring.Score{}, err
			}
			return scoring.Score{Value: res.Score, Confidence: res.Confidence}, nil
		},
	}, timeout)
}

func DefaultProviders(p *mlmodel.Predictor, a LLMAssessor, llmTimeout time.Duration) []scoring.Provider {
	out := []scoring.Provider{RuleBasedProvider(), MLProvider(p), OntologyProvider()}
	if a != nil {
		out = append(out, LLMProvider(a, llmTimeout))
	}
	return out
}
