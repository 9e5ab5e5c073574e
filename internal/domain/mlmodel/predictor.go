package mlmodel

import (
	"errors"
	"math"
	"sync"
	"time"

	"skill-match/internal/domain/matching"

	"gonum.org/v1/gonum/stat"
)

var ErrNoTrainedModel = errors.New("mlmodel: no trained model")

const (
	ModelForest = "random_forest"
	ModelKNN    = "knn"
	ModelTree   = "decision_tree"
)

var modelOrder = []string{ModelForest, ModelKNN, ModelTree}

var modelWeights = map[string]float64{
	ModelForest: 0.4,
	ModelKNN:    0.3,
	ModelTree:   0.3,
}

const (
	FallbackConfidence    = 0.3
	singleModelConfidence = 0.5
	minConfidence         = 0.1
	varianceScale         = 1000.0
)

type Snapshot struct {
	Scaler    *Scaler            `json:"scaler"`
	Forest    *Forest            `json:"random_forest,omitempty"`
	KNN       *KNN               `json:"knn,omitempty"`
	Tree      *Tree              `json:"decision_tree,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	TrainedAt time.Time          `json:"trained_at"`
}

type Info struct {
	Trained   bool               `json:"trained"`
	Version   string             `json:"version"`
	TrainedAt *time.Time         `json:"trained_at,omitempty"`
	Models    []string           `json:"models"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

const fallbackVersion = "fallback"

type Prediction struct {
	Score      float64            `json:"score"`
	Confidence float64            `json:"confidence"`
	Fallback   bool               `json:"fallback"`
	PerModel   map[string]float64 `json:"per_model,omitempty"`
}

type Predictor struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewPredictor(snap *Snapshot) *Predictor {
	return &Predictor{snap: snap}
}

func (p *Predictor) Swap(snap *Snapshot) {
	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()
}

func (p *Predictor) Trained() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap != nil && p.snap.Scaler != nil && (p.snap.Forest != nil || p.snap.KNN != nil || p.snap.Tree != nil)
}

func (p *Predictor) Version() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.snap == nil || p.snap.Scaler == nil {
		return fallbackVersion
	}
	return p.snap.TrainedAt.UTC().Format(time.RFC3339Nano)
}

func (p *Predictor) Info() Info {
	info := Info{Trained: p.Trained(), Version: p.Version(), Models: []string{}}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !info.Trained {
		return info
	}
	at := p.snap.TrainedAt
	info.TrainedAt = &at
	for _, name := range modelOrder {
		switch {
		case name == ModelForest && p.snap.Forest != nil,
			name == ModelKNN && p.snap.KNN != nil,
			name == ModelTree && p.snap.Tree != nil:
			info.Models = append(info.Models, name)
		}
	}
	if len(p.snap.Metrics) > 0 {
		info.Metrics = make(map[string]float64, len(p.snap.Metrics))
		for k, v := range p.snap.Metrics {
			info.Metrics[k] = v
		}
	}
	return info
}

func (p *Predictor) Predict(f matching.Features) Prediction {
	per, err := p.predictModels(f.Vector())
	if errors.Is(err, ErrNoTrainedModel) {
		return Fallback(f)
	}

	var num, den float64
	values := make([]float64, 0, len(per))
	for _, name := range modelOrder {
		v, ok := per[name]
		if !ok {
			continue
		}
		num += v * modelWeights[name]
		den += modelWeights[name]
		values = append(values, v)
	}
	return Prediction{
		Score:      round2(num / den),
		Confidence: confidenceFrom(values),
		PerModel:   per,
	}
}

func (p *Predictor) predictModels(x []float64) (map[string]float64, error) {
	p.mu.RLock()
	snap := p.snap
	p.mu.RUnlock()
	if snap == nil || snap.Scaler == nil {
		return nil, ErrNoTrainedModel
	}

	xs := snap.Scaler.Transform(x)
	out := make(map[string]float64, 3)
	if snap.Forest != nil && len(snap.Forest.Trees) > 0 {
		out[ModelForest] = clampScore(snap.Forest.Predict(xs))
	}
	if snap.KNN != nil && len(snap.KNN.X) > 0 {
		out[ModelKNN] = clampScore(snap.KNN.Predict(xs))
	}
	if snap.Tree != nil && len(snap.Tree.Nodes) > 0 {
		out[ModelTree] = clampScore(snap.Tree.Predict(xs))
	}
	if len(out) == 0 {
		return nil, ErrNoTrainedModel
	}
	return out, nil
}

// Fallback is the rule used when no model is trained: skills, experience
// entries and education entries, each capped at 100, weighted 0.4/0.4/0.2.
func Fallback(f matching.Features) Prediction {
	skills := math.Min(100, f.SkillCount*10)
	experience := math.Min(100, float64(f.ExperienceEntries)*20)
	education := math.Min(100, float64(f.EducationEntries)*25)
	return Prediction{
		Score:      round2(skills*0.4 + experience*0.4 + education*0.2),
		Confidence: FallbackConfidence,
		Fallback:   true,
	}
}

func confidenceFrom(values []float64) float64 {
	if len(values) < 2 {
		return singleModelConfidence
	}
	_, variance := stat.PopMeanVariance(values, nil)
	return round2(math.Max(minConfidence, 1-variance/varianceScale))
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
