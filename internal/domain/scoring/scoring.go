package scoring

import (
	"context"
	"errors"
	"math"

	"skill-match/internal/domain/matching"
	"skill-match/internal/domain/profile"
)

var ErrSourceFailed = errors.New("scoring: source failed")

type Source string

const (
	SourceRuleBased Source = "rule_based"
	SourceML        Source = "ml_ensemble"
	SourceOntology  Source = "ontology"
	SourceLLM       Source = "llm"
)

type Score struct {
	Source     Source  `json:"source"`
	Value      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

type Input struct {
	Candidate profile.CandidateProfile
	Job       profile.JobRequirements
	Match     matching.Result
	Features  matching.Features
}

type Provider interface {
	Source() Source
	Score(ctx context.Context, in Input) (Score, error)
}

type ProviderFunc struct {
	Name Source
	Fn   func(ctx context.Context, in Input) (Score, error)
}

func (p ProviderFunc) Source() Source { return p.Name }

func (p ProviderFunc) Score(ctx context.Context, in Input) (Score, error) {
	return p.Fn(ctx, in)
}

type Bundle struct {
	Overall float64          `json:"overall_score"`
	Sources map[Source]Score `json:"per_source"`
}

func NewBundle(scores []Score) Bundle {
	b := Bundle{Sources: make(map[Source]Score, len(scores))}
	for _, s := range scores {
		b.Sources[s.Source] = s
	}
	b.Overall = Combine(scores)
	return b
}

func (b Bundle) Scores() []Score {
	out := make([]Score, 0, len(b.Sources))
	for _, src := range []Source{SourceRuleBased, SourceML, SourceOntology, SourceLLM} {
		if s, ok := b.Sources[src]; ok {
			out = append(out, s)
		}
	}
	for src, s := range b.Sources {
		if !knownSource(src) {
			out = append(out, s)
		}
	}
	return out
}

// Combine is the confidence-weighted mean rounded to 2 decimals. It is 0 for
// no scores or when every confidence is 0.
func Combine(scores []Score) float64 {
	var num, den float64
	for _, s := range scores {
		if s.Confidence <= 0 {
			continue
		}
		num += s.Value * s.Confidence
		den += s.Confidence
	}
	if den == 0 {
		return 0
	}
	return math.Round(num/den*100) / 100
}

func knownSource(s Source) bool {
	switch s {
	case SourceRuleBased, SourceML, SourceOntology, SourceLLM:
		return true
	}
	return false
}
