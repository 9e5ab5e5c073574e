package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Call runs one provider and reports whether it produced a usable score.
// Errors, panics and out-of-range values are logged and turned into ok=false.
func Call(ctx context.Context, p Provider, in Input, logger *zap.Logger) (s Score, ok bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := p.Source()
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("score source panicked", zap.String("source", string(src)), zap.Any("panic", r))
			s, ok = Score{}, false
		}
	}()

	s, err := p.Score(ctx, in)
	if err == nil {
		err = validate(s)
	}
	if err != nil {
		logger.Warn("score source failed", zap.String("source", string(src)), zap.Error(err))
		return Score{}, false
	}
	s.Source = src
	return s, true
}

func validate(s Score) error {
	if math.IsNaN(s.Value) || math.IsNaN(s.Confidence) {
		return fmt.Errorf("%w: NaN score", ErrSourceFailed)
	}
	if s.Value < 0 || s.Value > 100 {
		return fmt.Errorf("%w: score %.2f out of range", ErrSourceFailed, s.Value)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("%w: confidence %.2f out of range", ErrSourceFailed, s.Confidence)
	}
	return nil
}

// Collect runs every provider concurrently and folds the successful ones
// into a bundle. A failing provider never fails the call.
func Collect(ctx context.Context, providers []Provider, in Input, logger *zap.Logger) Bundle {
	results := make([]Score, len(providers))
	okays := make([]bool, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			results[i], okays[i] = Call(ctx, p, in, logger)
			return nil
		})
	}
	_ = g.Wait()

	scores := make([]Score, 0, len(providers))
	for i, ok := range okays {
		if ok {
			scores = append(scores, results[i])
		}
	}
	return NewBundle(scores)
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return timeoutProvider{Provider: p, timeout: d}
}

func (t timeoutProvider) Score(ctx context.Context, in Input) (Score, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		s   Score
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("%w: panic: %v", ErrSourceFailed, r)}
			}
		}()
		s, err := t.Provider.Score(ctx, in)
		ch <- result{s: s, err: err}
	}()

	select {
	case r := <-ch:
		return r.s, r.err
	case <-ctx.Done():
		return Score{}, fmt.Errorf("%w: %v", ErrSourceFailed, ctx.Err())
	}
}
