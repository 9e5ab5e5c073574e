package mlmodel

import (
	"sort"
)

const minSamplesSplit = 2

type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
	Leaf      bool    `json:"leaf"`
}

type Tree struct {
	Nodes []treeNode `json:"nodes"`
}

func FitTree(x [][]float64, y []float64, idx []int, maxDepth int) *Tree {
	t := &Tree{}
	if len(idx) == 0 {
		t.Nodes = append(t.Nodes, treeNode{Leaf: true})
		return t
	}
	t.grow(x, y, append([]int(nil), idx...), 0, maxDepth)
	return t
}

func (t *Tree) grow(x [][]float64, y []float64, idx []int, depth, maxDepth int) int {
	pos := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Leaf: true, Value: meanOf(y, idx)})

	if depth >= maxDepth || len(idx) < minSamplesSplit {
		return pos
	}
	feature, threshold, ok := bestSplit(x, y, idx)
	if !ok {
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return pos
	}

	l := t.grow(x, y, left, depth+1, maxDepth)
	r := t.grow(x, y, right, depth+1, maxDepth)
	t.Nodes[pos] = treeNode{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return pos
}

func (t *Tree) Predict(x []float64) float64 {
	if t == nil || len(t.Nodes) == 0 {
		return 0
	}
	n := t.Nodes[0]
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Value
}

func bestSplit(x [][]float64, y []float64, idx []int) (int, float64, bool) {
	n := len(idx)
	var totalSum, totalSq float64
	for _, i := range idx {
		totalSum += y[i]
		totalSq += y[i] * y[i]
	}
	parentSSE := totalSq - totalSum*totalSum/float64(n)

	bestSSE := parentSSE
	bestFeature, bestThreshold, found := 0, 0.0, false

	sorted := make([]int, n)
	for f := range x[idx[0]] {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var lSum, lSq float64
		for k := 1; k < n; k++ {
			yi := y[sorted[k-1]]
			lSum += yi
			lSq += yi * yi

			lo, hi := x[sorted[k-1]][f], x[sorted[k]][f]
			if lo == hi {
				continue
			}
			nl, nr := float64(k), float64(n-k)
			rSum, rSq := totalSum-lSum, totalSq-lSq
			sse := (lSq - lSum*lSum/nl) + (rSq - rSum*rSum/nr)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (lo + hi) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func meanOf(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var s float64
	for _, i := range idx {
		s += y[i]
	}
	return s / float64(len(idx))
}
