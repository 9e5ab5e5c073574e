package llm

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"skill-match/internal/domain/profile"
	"skill-match/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed prompt.md
var promptTemplate string

const maxLogLength = 200

var ErrInvalidResponse = errors.New("invalid llm response")

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Assessment struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type Scorer struct {
	generator contentGenerator
	limiter   *rate.Limiter
	logger    *zap.Logger
}

func NewScorer(gen contentGenerator, rps float64, l *zap.Logger) *Scorer {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(math.Max(1, math.Ceil(rps)))
	}
	return &Scorer{
		generator: gen,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger.OrNop(l).Named("llm"),
	}
}

func (s *Scorer) Assess(ctx context.Context, c profile.CandidateProfile, job profile.JobRequirements) (Assessment, error) {
	if s == nil || s.generator == nil {
		return Assessment{}, errors.New("llm scorer is not initialized")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return Assessment{}, fmt.Errorf("llm rate limit: %w", err)
	}

	prompt, err := buildPrompt(c, job)
	if err != nil {
		return Assessment{}, err
	}

	s.logger.Debug("llm score request",
		zap.String("candidate_id", c.ID),
		zap.String("job_id", job.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return Assessment{}, err
	}

	s.logger.Debug("llm score response",
		zap.String("candidate_id", c.ID),
		zap.String("job_id", job.ID),
		zap.String("response_preview", logger.Truncate(raw, maxLogLength)),
	)
	return parseResponse(raw)
}

func buildPrompt(c profile.CandidateProfile, job profile.JobRequirements) (string, error) {
	// contact details are withheld from the model
	c.Name, c.Email = "", ""
	cj, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}
	jj, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}
	p := strings.ReplaceAll(promptTemplate, "{{CANDIDATE_JSON}}", string(cj))
	return strings.ReplaceAll(p, "{{JOB_JSON}}", string(jj)), nil
}

func parseResponse(raw string) (Assessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) || score < 0 || score > 100 {
		return Assessment{}, fmt.Errorf("%w: score %v", ErrInvalidResponse, data["score"])
	}
	conf := coerceFloat(data["confidence"])
	if math.IsNaN(conf) {
		conf = 0.5
	}
	conf = math.Max(0, math.Min(1, conf))

	reason, _ := data["reason"].(string)
	return Assessment{Score: score, Confidence: conf, Reason: strings.TrimSpace(reason)}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
