package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fixed(src Source, value, conf float64) Provider {
	return ProviderFunc{Name: src, Fn: func(context.Context, Input) (Score, error) {
		return Score{Value: value, Confidence: conf}, nil
	}}
}

func TestCombine(t *testing.T) {
	assert.Equal(t, 0.0, Combine(nil))
	assert.Equal(t, 0.0, Combine([]Score{{Value: 90, Confidence: 0}}))
	assert.Equal(t, 73.5, Combine([]Score{{Value: 73.5, Confidence: 1}}))
	assert.Equal(t, 60.0, Combine([]Score{{Value: 40, Confidence: 0.7}, {Value: 80, Confidence: 0.7}}))
	// (100*0.8 + 50*0.2) / 1.0
	assert.Equal(t, 90.0, Combine([]Score{{Value: 100, Confidence: 0.8}, {Value: 50, Confidence: 0.2}}))
	assert.Equal(t, 33.33, Combine([]Score{{Value: 100, Confidence: 0.1}, {Value: 0, Confidence: 0.2}}))
}

func TestCollect_OmitsFailingSources(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	providers := []Provider{
		fixed(SourceRuleBased, 80, 0.8),
		ProviderFunc{Name: SourceML, Fn: func(context.Context, Input) (Score, error) {
			return Score{}, errors.New("boom")
		}},
		ProviderFunc{Name: SourceLLM, Fn: func(context.Context, Input) (Score, error) {
			panic("provider exploded")
		}},
		fixed(SourceOntology, 150, 1),
	}

	b := Collect(context.Background(), providers, Input{}, logger)
	require.Len(t, b.Sources, 1)
	assert.Equal(t, 80.0, b.Overall)
	assert.Equal(t, SourceRuleBased, b.Sources[SourceRuleBased].Source)
	assert.Equal(t, 3, logs.FilterMessageSnippet("score source").Len())
}

func TestCollect_AllFail(t *testing.T) {
	b := Collect(context.Background(), []Provider{
		ProviderFunc{Name: SourceML, Fn: func(context.Context, Input) (Score, error) { return Score{}, ErrSourceFailed }},
	}, Input{}, nil)
	assert.Empty(t, b.Sources)
	assert.Equal(t, 0.0, b.Overall)
}

func TestWithTimeout(t *testing.T) {
	slow := ProviderFunc{Name: SourceLLM, Fn: func(ctx context.Context, _ Input) (Score, error) {
		select {
		case <-ctx.Done():
			return Score{}, ctx.Err()
		case <-time.After(5 * time.Second):
			return Score{Value: 99, Confidence: 1}, nil
		}
	}}

	start := time.Now()
	_, ok := Call(context.Background(), WithTimeout(slow, 20*time.Millisecond), Input{}, nil)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)

	s, ok := Call(context.Background(), WithTimeout(fixed(SourceLLM, 70, 0.5), time.Second), Input{}, nil)
	require.True(t, ok)
	assert.Equal(t, SourceLLM, s.Source)
}

func TestBundle_ScoresOrdered(t *testing.T) {
	b := NewBundle([]Score{
		{Source: SourceLLM, Value: 10, Confidence: 1},
		{Source: SourceRuleBased, Value: 20, Confidence: 1},
		{Source: SourceOntology, Value: 30, Confidence: 1},
	})
	got := b.Scores()
	require.Len(t, got, 3)
	assert.Equal(t, []Source{SourceRuleBased, SourceOntology, SourceLLM}, []Source{got[0].Source, got[1].Source, got[2].Source})
	assert.Equal(t, 20.0, b.Overall)
}
