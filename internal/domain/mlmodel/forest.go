package mlmodel

import (
	"math/rand/v2"
)

type Forest struct {
	Trees []*Tree `json:"trees"`
}

func FitForest(x [][]float64, y []float64, nTrees, maxDepth int, seed uint64) *Forest {
	f := &Forest{Trees: make([]*Tree, 0, nTrees)}
	n := len(x)
	if n == 0 {
		return f
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	idx := make([]int, n)
	for t := 0; t < nTrees; t++ {
		for i := range idx {
			idx[i] = rng.IntN(n)
		}
		f.Trees = append(f.Trees, FitTree(x, y, idx, maxDepth))
	}
	return f
}

func (f *Forest) Predict(x []float64) float64 {
	if f == nil || len(f.Trees) == 0 {
		return 0
	}
	var s float64
	for _, t := range f.Trees {
		s += t.Predict(x)
	}
	return s / float64(len(f.Trees))
}
