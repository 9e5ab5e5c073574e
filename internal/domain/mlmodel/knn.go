package mlmodel

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

type KNN struct {
	K int         `json:"k"`
	X [][]float64 `json:"x"`
	Y []float64   `json:"y"`
}

func FitKNN(x [][]float64, y []float64, k int) *KNN {
	m := &KNN{K: k, X: make([][]float64, len(x)), Y: append([]float64(nil), y...)}
	for i, row := range x {
		m.X[i] = append([]float64(nil), row...)
	}
	return m
}

func (m *KNN) Predict(x []float64) float64 {
	if m == nil || len(m.X) == 0 {
		return 0
	}
	type neighbour struct {
		dist float64
		y    float64
	}
	ns := make([]neighbour, len(m.X))
	for i, row := range m.X {
		ns[i] = neighbour{dist: floats.Distance(x, row, 2), y: m.Y[i]}
	}
	sort.SliceStable(ns, func(a, b int) bool { return ns[a].dist < ns[b].dist })

	k := m.K
	if k <= 0 || k > len(ns) {
		k = len(ns)
	}
	ns = ns[:k]

	var exactSum float64
	var exact int
	for _, n := range ns {
		if n.dist == 0 {
			exactSum += n.y
			exact++
		}
	}
	if exact > 0 {
		return exactSum / float64(exact)
	}

	var num, den float64
	for _, n := range ns {
		w := 1 / n.dist
		num += w * n.y
		den += w
	}
	return num / den
}
