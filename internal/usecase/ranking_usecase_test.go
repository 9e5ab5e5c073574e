package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"skill-match/internal/domain/bias"
	"skill-match/internal/domain/ontology"
	"skill-match/internal/domain/profile"
	"skill-match/internal/domain/ranking"
	"skill-match/internal/domain/scoring"
	"skill-match/internal/infrastructure/persistence/badgerstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]ranking.Ranking
}

func (n *recordingNotifier) NotifyRankingsUpdated(jobID string, rs []ranking.Ranking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[string][]ranking.Ranking{}
	}
	n.events[jobID] = rs
}

func newStore(t *testing.T) *badgerstore.RankingStore {
	t.Helper()
	s, err := badgerstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func member(id string, score float64) CohortMember {
	return CohortMember{
		Candidate: profile.CandidateProfile{ID: id},
		Bundle:    scoring.NewBundle([]scoring.Score{{Source: scoring.SourceRuleBased, Value: score, Confidence: 1}}),
		SubScores: map[string]float64{"skills": score},
	}
}

func TestRankCohort_PositionsAndTies(t *testing.T) {
	n := &recordingNotifier{}
	uc := NewRankingUsecase(newStore(t), nil, nil, n, nil)

	out, err := uc.RankCohort(context.Background(), "j1", []CohortMember{
		member("carol", 70), member("alice", 70), member("bob", 95), member("dave", 10),
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(out))
	for i, r := range out {
		assert.Equal(t, i+1, r.Position)
		ids = append(ids, r.CandidateID)
	}
	assert.Equal(t, []string{"bob", "alice", "carol", "dave"}, ids)
	assert.Equal(t, 95.0, out[0].SubScores["source:rule_based"])
	assert.Equal(t, 95.0, out[0].SubScores["skills"])
	assert.Len(t, n.events["j1"], 4)
}

func TestRankCohort_EmptyReturnsEmptyList(t *testing.T) {
	uc := NewRankingUsecase(newStore(t), nil, nil, nil, nil)
	out, err := uc.RankCohort(context.Background(), "j1", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestRankCohort_RescoreUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	uc := NewRankingUsecase(newStore(t), nil, nil, nil, nil)

	_, err := uc.RankCohort(ctx, "j1", []CohortMember{member("a", 50), member("b", 60)})
	require.NoError(t, err)
	out, err := uc.RankCohort(ctx, "j1", []CohortMember{member("a", 90)})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].CandidateID)
	assert.Equal(t, 90.0, out[0].OverallScore)
	assert.Equal(t, 2, out[1].Position)

	got, err := uc.GetRanking(ctx, "b", "j1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Position)
}

func TestRankCohort_InvalidInput(t *testing.T) {
	uc := NewRankingUsecase(newStore(t), nil, nil, nil, nil)
	_, err := uc.RankCohort(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.RankCohort(context.Background(), "j1", []CohortMember{member("", 10)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankCohort_PermutationForAnySize(t *testing.T) {
	ctx := context.Background()
	uc := NewRankingUsecase(newStore(t), nil, nil, nil, nil)
	for n := 1; n <= 25; n += 6 {
		job := fmt.Sprintf("job-%d", n)
		members := make([]CohortMember, 0, n)
		for i := 0; i < n; i++ {
			members = append(members, member(fmt.Sprintf("c%02d", i), float64((i*37)%5)*10))
		}
		out, err := uc.RankCohort(ctx, job, members)
		require.NoError(t, err)
		require.Len(t, out, n)
		for i, r := range out {
			assert.Equal(t, i+1, r.Position)
		}
	}
}

func TestGetRanking_NotFound(t *testing.T) {
	uc := NewRankingUsecase(newStore(t), nil, nil, nil, nil)
	_, err := uc.GetRanking(context.Background(), "x", "j1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.ListRankings(context.Background(), "j1", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankCandidates_ScoresRanksAndAudits(t *testing.T) {
	matches, _ := newMatchUsecase(t)
	auditor := bias.NewAuditor(10)
	uc := NewRankingUsecase(newStore(t), matches, auditor, nil, nil)

	job := profile.JobRequirements{ID: "j1", RequiredSkills: []string{"python", "postgresql"}}
	out, err := uc.RankCandidates(context.Background(), job, []profile.CandidateProfile{
		{ID: "weak"},
		{ID: "strong", Skills: []string{"python", "postgresql"}},
		{ID: "mid", Name: "Wei Chen", Skills: []string{"python"}},
	})
	require.NoError(t, err)

	require.Len(t, out.Rankings, 3)
	assert.Equal(t, "strong", out.Rankings[0].CandidateID)
	assert.Equal(t, "mid", out.Rankings[1].CandidateID)
	assert.Equal(t, "weak", out.Rankings[2].CandidateID)
	require.Len(t, out.Matches, 3)
	require.Len(t, out.Flagged, 1)
	assert.Equal(t, "mid", out.Flagged[0].CandidateID)
	assert.Equal(t, uint64(3), auditor.Metrics().TotalEvaluated)
}

func TestRankCandidates_InvalidCandidateFails(t *testing.T) {
	matches, _ := newMatchUsecase(t)
	uc := NewRankingUsecase(newStore(t), matches, nil, nil, nil)
	_, err := uc.RankCandidates(context.Background(),
		profile.JobRequirements{ID: "j1"},
		[]profile.CandidateProfile{{ID: "ok"}, {}},
	)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOntologyUsecase(t *testing.T) {
	uc := NewOntologyUsecase(ontology.Build(ontology.Seed()))

	sim, err := uc.Similarity("Django", "postgresql")
	require.NoError(t, err)
	assert.Equal(t, 2, sim.PathLength)

	sim, err = uc.Similarity("python", "cobol")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim.Similarity)
	assert.Equal(t, -1, sim.PathLength)

	rel, err := uc.Related("django", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, rel.Depth)
	assert.Contains(t, rel.Related, "python")

	_, err = uc.Related("cobol", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.Related("django", 9)
	assert.ErrorIs(t, err, ErrInvalidInput)

	st := uc.Stats()
	assert.Greater(t, st.TotalSkills, 0)
}

func TestBiasUsecase(t *testing.T) {
	ctx := context.Background()
	uc := NewBiasUsecase(bias.NewAuditor(5))

	e, err := uc.Audit(ctx, profile.CandidateProfile{ID: "c1", Name: "Wei Chen"}, 60, profile.JobRequirements{ID: "j1"})
	require.NoError(t, err)
	require.NotNil(t, e)

	e, err = uc.Audit(ctx, profile.CandidateProfile{ID: "c2", Name: "Alex Morgan"}, 60, profile.JobRequirements{ID: "j1"})
	require.NoError(t, err)
	assert.Nil(t, e)

	_, err = uc.Audit(ctx, profile.CandidateProfile{ID: "c3"}, 120, profile.JobRequirements{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	r, err := uc.Report(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalEvaluated)
	assert.Equal(t, 0.5, r.DetectionRate)

	_, err = uc.Report(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Len(t, uc.Entries(ctx, 10), 1)
	assert.Equal(t, 1, uc.Metrics(ctx).LogSize)
}
