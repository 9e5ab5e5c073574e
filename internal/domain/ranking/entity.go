package ranking

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCohort = errors.New("ranking: empty cohort")
	ErrNotFound    = errors.New("ranking: not found")
)

type Ranking struct {
	ID           uuid.UUID          `json:"id"`
	CandidateID  string             `json:"candidate_id"`
	JobID        string             `json:"job_id"`
	OverallScore float64            `json:"overall_score"`
	SubScores    map[string]float64 `json:"sub_scores"`
	Position     int                `json:"position"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Sort orders rankings by score descending, then candidate id ascending.
func Sort(rs []Ranking) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].OverallScore != rs[j].OverallScore {
			return rs[i].OverallScore > rs[j].OverallScore
		}
		return rs[i].CandidateID < rs[j].CandidateID
	})
}

// AssignPositions sorts rs in place and numbers it 1..N. It returns the
// indexes, after sorting, whose position changed.
func AssignPositions(rs []Ranking) []int {
	Sort(rs)
	changed := make([]int, 0, len(rs))
	for i := range rs {
		if rs[i].Position != i+1 {
			rs[i].Position = i + 1
			changed = append(changed, i)
		}
	}
	return changed
}

type LockSet struct {
	locks sync.Map
}

func (l *LockSet) Lock(jobID string) func() {
	v, _ := l.locks.LoadOrStore(jobID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
