package bias

import (
	"math"
	"sort"
	"sync"
	"time"

	"skill-match/internal/domain/profile"

	"go.uber.org/zap"
)

// ReviewThreshold is the aggregate score above which an entry needs a human
// reviewer. It is not calibrated.
const ReviewThreshold = 0.5

const (
	DefaultLogCapacity     = 1000
	DefaultWindowDays      = 30
	attentionDetectionRate = 0.15
	highDetectionRate      = 0.2
	dimensionShare         = 0.1
	evaluationsPerEntry    = 10
)

type Entry struct {
	Timestamp       time.Time               `json:"timestamp"`
	CandidateID     string                  `json:"candidate_id"`
	JobID           string                  `json:"job_id,omitempty"`
	RankingScore    float64                 `json:"ranking_score"`
	Indicators      map[Dimension]Indicator `json:"bias_indicators"`
	AggregateScore  float64                 `json:"bias_score"`
	RequiresReview  bool                    `json:"requires_review"`
	Recommendations []string                `json:"recommendations"`
}

type evaluation struct {
	at      time.Time
	flagged bool
}

type Report struct {
	PeriodDays         int               `json:"period_days"`
	TotalEvaluated     int               `json:"total_evaluated"`
	Flagged            int               `json:"flagged"`
	DetectionRate      float64           `json:"detection_rate"`
	AverageScore       float64           `json:"average_score"`
	PerDimensionCounts map[Dimension]int `json:"per_dimension_counts"`
	RequiresAttention  bool              `json:"requires_attention"`
	Recommendations    []string          `json:"recommendations"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

type Metrics struct {
	LogSize         int     `json:"log_size"`
	LogCapacity     int     `json:"log_capacity"`
	TotalEvaluated  uint64  `json:"total_evaluated"`
	TotalFlagged    uint64  `json:"total_flagged"`
	ReviewThreshold float64 `json:"review_threshold"`
}

type Auditor struct {
	mu      sync.Mutex
	entries *Ring[Entry]
	evals   *Ring[evaluation]
	total   uint64
	flagged uint64

	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Auditor)

func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Auditor) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAuditor(capacity int, opts ...Option) *Auditor {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	a := &Auditor{
		entries: NewRing[Entry](capacity),
		evals:   NewRing[evaluation](capacity * evaluationsPerEntry),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Audit evaluates one candidate/score pair. It returns nil when no dimension
// triggers; otherwise the entry that was appended to the log.
func (a *Auditor) Audit(c profile.CandidateProfile, score float64, job profile.JobRequirements) *Entry {
	triggered := Evaluate(c)
	at := a.now().UTC()

	var entry *Entry
	if len(triggered) > 0 {
		agg := AggregateScore(triggered)
		entry = &Entry{
			Timestamp:       at,
			CandidateID:     c.ID,
			JobID:           job.ID,
			RankingScore:    score,
			Indicators:      triggered,
			AggregateScore:  round3(agg),
			RequiresReview:  agg > ReviewThreshold,
			Recommendations: recommendationsFor(triggered),
		}
	}

	a.mu.Lock()
	a.total++
	a.evals.Push(evaluation{at: at, flagged: entry != nil})
	if entry != nil {
		a.flagged++
		a.entries.Push(*entry)
	}
	a.mu.Unlock()

	if entry != nil && entry.RequiresReview {
		a.logger.Warn("bias review required",
			zap.String("candidate_id", entry.CandidateID),
			zap.String("job_id", entry.JobID),
			zap.Float64("bias_score", entry.AggregateScore),
			zap.Int("dimensions", len(triggered)),
		)
	}
	return entry
}

func (a *Auditor) Report(windowDays int) Report {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := a.now().UTC()
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	a.mu.Lock()
	evals := a.evals.Snapshot()
	entries := a.entries.Snapshot()
	a.mu.Unlock()

	r := Report{
		PeriodDays:         windowDays,
		PerDimensionCounts: make(map[Dimension]int, len(Dimensions)),
		Recommendations:    []string{},
		GeneratedAt:        now,
	}
	for _, d := range Dimensions {
		r.PerDimensionCounts[d] = 0
	}

	for _, e := range evals {
		if e.at.Before(cutoff) {
			continue
		}
		r.TotalEvaluated++
		if e.flagged {
			r.Flagged++
		}
	}

	var scoreSum float64
	var scored int
	for _, e := range entries {
		if e.Timestamp.Before(cutoff) {
			continue
		}
		scoreSum += e.AggregateScore
		scored++
		for d := range e.Indicators {
			r.PerDimensionCounts[d]++
		}
	}

	if r.TotalEvaluated > 0 {
		r.DetectionRate = round3(float64(r.Flagged) / float64(r.TotalEvaluated))
	}
	if scored > 0 {
		r.AverageScore = round3(scoreSum / float64(scored))
	}
	r.RequiresAttention = r.DetectionRate > attentionDetectionRate || r.AverageScore > ReviewThreshold

	if r.DetectionRate > highDetectionRate {
		r.Recommendations = append(r.Recommendations, "High bias detection rate - review evaluation criteria")
	}
	share := float64(r.TotalEvaluated) * dimensionShare
	if float64(r.PerDimensionCounts[DimensionGender]) > share && r.PerDimensionCounts[DimensionGender] > 0 {
		r.Recommendations = append(r.Recommendations, "Gender bias detected - implement blind screening")
	}
	if float64(r.PerDimensionCounts[DimensionName]) > share && r.PerDimensionCounts[DimensionName] > 0 {
		r.Recommendations = append(r.Recommendations, "Name bias detected - use structured evaluation")
	}
	return r
}

func (a *Auditor) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries.Snapshot()
}

func (a *Auditor) Metrics() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Metrics{
		LogSize:         a.entries.Len(),
		LogCapacity:     a.entries.Cap(),
		TotalEvaluated:  a.total,
		TotalFlagged:    a.flagged,
		ReviewThreshold: ReviewThreshold,
	}
}

func recommendationsFor(triggered map[Dimension]Indicator) []string {
	dims := make([]Dimension, 0, len(triggered))
	for d := range triggered {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dimOrder(dims[i]) < dimOrder(dims[j]) })
	out := make([]string, 0, len(dims))
	for _, d := range dims {
		out = append(out, recommendations[d])
	}
	return out
}

func dimOrder(d Dimension) int {
	for i, x := range Dimensions {
		if x == d {
			return i
		}
	}
	return len(Dimensions)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
