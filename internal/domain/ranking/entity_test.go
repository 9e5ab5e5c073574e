package ranking

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignPositions_Empty(t *testing.T) {
	assert.Empty(t, AssignPositions(nil))
}

func TestAssignPositions_DenseAndTieBreak(t *testing.T) {
	rs := []Ranking{
		{CandidateID: "c", OverallScore: 70},
		{CandidateID: "a", OverallScore: 90},
		{CandidateID: "b", OverallScore: 70},
		{CandidateID: "d", OverallScore: 10},
	}
	changed := AssignPositions(rs)
	assert.Len(t, changed, 4)

	got := make([]string, 0, len(rs))
	for i, r := range rs {
		assert.Equal(t, i+1, r.Position)
		got = append(got, r.CandidateID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)

	// unchanged order writes nothing
	assert.Empty(t, AssignPositions(rs))

	rs[3].OverallScore = 95
	changed = AssignPositions(rs)
	assert.Equal(t, []int{0, 1, 2, 3}, changed)
	assert.Equal(t, "d", rs[0].CandidateID)
}

func TestAssignPositions_Permutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for n := 0; n < 40; n++ {
		rs := make([]Ranking, n)
		for i := range rs {
			rs[i] = Ranking{CandidateID: fmt.Sprintf("c%03d", rng.IntN(1000)), OverallScore: float64(rng.IntN(5))}
		}
		AssignPositions(rs)
		seen := make(map[int]bool, n)
		for _, r := range rs {
			require.False(t, seen[r.Position])
			seen[r.Position] = true
			assert.GreaterOrEqual(t, r.Position, 1)
			assert.LessOrEqual(t, r.Position, n)
		}
		for i := 1; i < n; i++ {
			prev, cur := rs[i-1], rs[i]
			ok := prev.OverallScore > cur.OverallScore ||
				(prev.OverallScore == cur.OverallScore && prev.CandidateID <= cur.CandidateID)
			assert.True(t, ok)
		}
	}
}

func TestLockSet_SerializesPerJob(t *testing.T) {
	var ls LockSet
	var mu sync.Mutex
	active := map[string]int{}
	maxActive := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		job := fmt.Sprintf("job-%d", i%2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := ls.Lock(job)
			defer unlock()

			mu.Lock()
			active[job]++
			if active[job] > maxActive[job] {
				maxActive[job] = active[job]
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active[job]--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxActive["job-0"])
	assert.Equal(t, 1, maxActive["job-1"])
}
