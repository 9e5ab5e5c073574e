package mlmodel

import (
	"gonum.org/v1/gonum/stat"
)

type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func FitScaler(x [][]float64) *Scaler {
	if len(x) == 0 {
		return &Scaler{}
	}
	dims := len(x[0])
	s := &Scaler{Mean: make([]float64, dims), Std: make([]float64, dims)}
	col := make([]float64, len(x))
	for j := 0; j < dims; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return s
}

func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		if j >= len(s.Mean) {
			out[j] = v
			continue
		}
		sd := s.Std[j]
		if sd == 0 {
			sd = 1
		}
		out[j] = (v - s.Mean[j]) / sd
	}
	return out
}

func (s *Scaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}
