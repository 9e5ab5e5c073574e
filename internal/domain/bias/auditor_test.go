package bias

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"skill-match/internal/domain/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var job = profile.JobRequirements{ID: "job-1"}

func neutral(id string) profile.CandidateProfile {
	return profile.CandidateProfile{ID: id, Name: "Alex Morgan"}
}

func flaggedName(id string) profile.CandidateProfile {
	return profile.CandidateProfile{ID: id, Name: "Wei Chen"}
}

func TestRing_EvictsOldest(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 4; i++ {
		r.Push(i)
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{2, 3, 4}, r.Snapshot())
}

func TestDetectors(t *testing.T) {
	c := profile.CandidateProfile{
		ID:       "c1",
		Name:     "Ms Sarah Jennifer",
		Email:    "jessica.amanda@example.com",
		Location: "Seattle, WA",
		Education: []profile.Education{
			{Institution: "Stanford University"},
			{Institution: "MIT"},
		},
		Experience: []profile.Experience{
			{Company: "Acme Inc", Location: "Boston"},
			{Company: "Widgets LLC"},
		},
	}
	got := Evaluate(c)

	require.Contains(t, got, DimensionGender)
	assert.Equal(t, 5, got[DimensionGender].Counts["female_indicators"])
	assert.InDelta(t, 0.5, got[DimensionGender].Confidence, 1e-9)

	assert.NotContains(t, got, DimensionName)

	require.Contains(t, got, DimensionEducation)
	assert.InDelta(t, 0.4, got[DimensionEducation].Confidence, 1e-9)

	require.Contains(t, got, DimensionExperience)
	assert.Equal(t, 2, got[DimensionExperience].Counts["startup_experience"])
	assert.InDelta(t, 1.0, got[DimensionExperience].Confidence, 1e-9)

	require.Contains(t, got, DimensionGeographic)
	assert.Equal(t, 2, got[DimensionGeographic].Counts["major_cities"])
}

func TestDetectName(t *testing.T) {
	ind := detectName(profile.CandidateProfile{Name: "Wei Chen"})
	assert.True(t, ind.Detected)
	assert.InDelta(t, 0.25, ind.Confidence, 1e-9)

	ind = detectName(profile.CandidateProfile{Name: "José Kumar"})
	assert.Equal(t, 2, ind.Counts["pattern_matches"])

	assert.False(t, detectName(profile.CandidateProfile{Name: "Alex Morgan"}).Detected)
	assert.False(t, detectName(profile.CandidateProfile{}).Detected)
}

func TestDetectors_NoSignals(t *testing.T) {
	got := Evaluate(profile.CandidateProfile{
		ID:         "c1",
		Name:       "Alex Morgan",
		Education:  []profile.Education{{Institution: "Stanford"}, {Institution: "Valley Community College"}},
		Experience: []profile.Experience{{Company: "Acme Inc"}, {Company: "Globex"}},
	})
	assert.Empty(t, got)
}

func TestAudit_NoTriggerReturnsNil(t *testing.T) {
	a := NewAuditor(10)
	assert.Nil(t, a.Audit(neutral("c1"), 70, job))
	assert.Equal(t, 0, a.Metrics().LogSize)
	assert.Equal(t, uint64(1), a.Metrics().TotalEvaluated)
}

func TestAudit_Entry(t *testing.T) {
	a := NewAuditor(10)
	e := a.Audit(flaggedName("c1"), 64.5, job)
	require.NotNil(t, e)
	assert.Equal(t, "c1", e.CandidateID)
	assert.Equal(t, "job-1", e.JobID)
	assert.Equal(t, 0.25, e.AggregateScore)
	assert.False(t, e.RequiresReview)
	assert.Equal(t, []string{recommendations[DimensionName]}, e.Recommendations)
}

func TestAudit_RequiresReview(t *testing.T) {
	a := NewAuditor(10)
	e := a.Audit(profile.CandidateProfile{
		ID:         "c1",
		Experience: []profile.Experience{{Company: "Startup One"}, {Company: "Foo Corp"}},
	}, 50, job)
	require.NotNil(t, e)
	assert.Equal(t, 1.0, e.AggregateScore)
	assert.True(t, e.RequiresReview)
}

func TestAudit_LogNeverExceedsCapacity(t *testing.T) {
	a := NewAuditor(5)
	for i := 0; i < 6; i++ {
		require.NotNil(t, a.Audit(flaggedName(fmt.Sprintf("c%d", i)), 50, job))
	}
	entries := a.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "c1", entries[0].CandidateID)
	assert.Equal(t, "c5", entries[4].CandidateID)
	for _, e := range entries {
		assert.NotEqual(t, "c0", e.CandidateID)
	}
}

func TestAudit_ConcurrentAppends(t *testing.T) {
	a := NewAuditor(50)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.Audit(flaggedName(fmt.Sprintf("c%d", i)), 50, job)
		}(i)
	}
	wg.Wait()

	m := a.Metrics()
	assert.Equal(t, 50, m.LogSize)
	assert.Equal(t, uint64(200), m.TotalFlagged)

	seen := map[string]bool{}
	for _, e := range a.Entries() {
		assert.False(t, seen[e.CandidateID], "duplicate slot for %s", e.CandidateID)
		seen[e.CandidateID] = true
	}
}

func TestReport_Window(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	a := NewAuditor(100, WithClock(clock.Now))

	// old activity, outside a 7 day window
	for i := 0; i < 4; i++ {
		a.Audit(flaggedName(fmt.Sprintf("old%d", i)), 50, job)
	}
	clock.Advance(10 * 24 * time.Hour)

	a.Audit(flaggedName("n1"), 50, job)
	for i := 0; i < 9; i++ {
		a.Audit(neutral(fmt.Sprintf("ok%d", i)), 50, job)
	}

	r := a.Report(7)
	assert.Equal(t, 7, r.PeriodDays)
	assert.Equal(t, 10, r.TotalEvaluated)
	assert.Equal(t, 1, r.Flagged)
	assert.Equal(t, 0.1, r.DetectionRate)
	assert.Equal(t, 0.25, r.AverageScore)
	assert.Equal(t, 1, r.PerDimensionCounts[DimensionName])
	assert.Equal(t, 0, r.PerDimensionCounts[DimensionGender])
	assert.False(t, r.RequiresAttention)
	assert.Empty(t, r.Recommendations)

	all := a.Report(30)
	assert.Equal(t, 14, all.TotalEvaluated)
	assert.Equal(t, 0.357, all.DetectionRate)
	assert.True(t, all.RequiresAttention)
	assert.Contains(t, all.Recommendations, "High bias detection rate - review evaluation criteria")
	assert.Contains(t, all.Recommendations, "Name bias detected - use structured evaluation")
}

func TestReport_Empty(t *testing.T) {
	r := NewAuditor(10).Report(0)
	assert.Equal(t, DefaultWindowDays, r.PeriodDays)
	assert.Equal(t, 0, r.TotalEvaluated)
	assert.Equal(t, 0.0, r.DetectionRate)
	assert.False(t, r.RequiresAttention)
	assert.Len(t, r.PerDimensionCounts, len(Dimensions))
}
