package mlmodel

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"
)

var ErrInsufficientData = errors.New("mlmodel: insufficient training data")

const minTrainingSamples = 5

type Sample struct {
	SkillsCount       float64 `json:"skills_count"`
	ExperienceYears   float64 `json:"experience_years"`
	EducationLevel    float64 `json:"education_level"`
	SkillMatchScore   float64 `json:"skill_match_score"`
	JobRelevanceScore float64 `json:"job_relevance_score"`
	OverallScore      float64 `json:"overall_score"`
}

func (s Sample) vector() []float64 {
	return []float64{s.SkillsCount, s.ExperienceYears, s.EducationLevel, s.SkillMatchScore, s.JobRelevanceScore}
}

type TrainOptions struct {
	Trees        int
	MaxDepth     int
	Neighbours   int
	TestFraction float64
	Seed         uint64
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Trees: 100, MaxDepth: 10, Neighbours: 5, TestFraction: 0.2, Seed: 42}
}

func Train(samples []Sample, opts TrainOptions) (*Snapshot, error) {
	n := len(samples)
	if n < minTrainingSamples {
		return nil, fmt.Errorf("%w: got %d samples, need %d", ErrInsufficientData, n, minTrainingSamples)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	perm := rng.Perm(n)
	nTest := int(math.Ceil(float64(n) * opts.TestFraction))
	if nTest >= n-1 {
		nTest = 0
	}

	var trainX, testX [][]float64
	var trainY, testY []float64
	for k, i := range perm {
		if k < nTest {
			testX = append(testX, samples[i].vector())
			testY = append(testY, samples[i].OverallScore)
			continue
		}
		trainX = append(trainX, samples[i].vector())
		trainY = append(trainY, samples[i].OverallScore)
	}

	scaler := FitScaler(trainX)
	xs := scaler.TransformAll(trainX)

	all := make([]int, len(xs))
	for i := range all {
		all[i] = i
	}

	snap := &Snapshot{
		Scaler:    scaler,
		Forest:    FitForest(xs, trainY, opts.Trees, opts.MaxDepth, opts.Seed),
		KNN:       FitKNN(xs, trainY, opts.Neighbours),
		Tree:      FitTree(xs, trainY, all, opts.MaxDepth),
		Metrics:   map[string]float64{},
		TrainedAt: time.Now().UTC(),
	}

	if len(testX) > 0 {
		txs := scaler.TransformAll(testX)
		models := map[string]func([]float64) float64{
			ModelForest: snap.Forest.Predict,
			ModelKNN:    snap.KNN.Predict,
			ModelTree:   snap.Tree.Predict,
		}
		for name, predict := range models {
			est := make([]float64, len(txs))
			for i, row := range txs {
				est[i] = clampScore(predict(row))
			}
			snap.Metrics[name] = r2(est, testY)
		}
	}
	return snap, nil
}

func r2(estimates, values []float64) float64 {
	v := stat.RSquaredFrom(estimates, values, nil)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return round2(v)
}
