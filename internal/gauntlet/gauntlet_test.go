package gauntlet

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubEvaluator returns a canned verdict or error.
type stubEvaluator struct {
	name    string
	verdict *Verdict
	err     error
	delay   time.Duration
	calls   atomic.Int64
}

func (s *stubEvaluator) Name() string { return s.name }

func (s *stubEvaluator) Run(ctx context.Context, _ string, _ EvalContext) (*Verdict, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	v := *s.verdict
	return &v, nil
}

func TestNewRequiresEvaluators(t *testing.T) {
	_, err := New(zap.NewNop(), nil)
	require.Error(t, err)
}

func TestRunAllPass(t *testing.T) {
	g, err := New(zap.NewNop(), []Evaluator{
		&stubEvaluator{name: "brand", verdict: &Verdict{Passed: true, Score: 90}},
		&stubEvaluator{name: "legal", verdict: &Verdict{Passed: true, Score: 75, Suggestion: "tighten the CTA"}},
	})
	require.NoError(t, err)

	agg := g.Run(context.Background(), "copy", EvalContext{Region: "CA"})

	assert.True(t, agg.Passed)
	assert.False(t, agg.Fatal)
	assert.Equal(t, 75.0, agg.Score, "aggregate score is the minimum")
	assert.Equal(t, "tighten the CTA", agg.Suggestion)
	require.Len(t, agg.Results, 2)
	assert.Equal(t, "brand", agg.Results[0].Evaluator)
	assert.Equal(t, "legal", agg.Results[1].Evaluator)
}

func TestRunOneFailureFailsAggregate(t *testing.T) {
	g, err := New(zap.NewNop(), []Evaluator{
		&stubEvaluator{name: "brand", verdict: &Verdict{Passed: true, Score: 90, Issues: []string{"tone is off"}}},
		&stubEvaluator{name: "legal", verdict: &Verdict{Passed: false, Score: 20, Issues: []string{"implied medical claim", "missing license number"}}},
	})
	require.NoError(t, err)

	agg := g.Run(context.Background(), "copy", EvalContext{})

	assert.False(t, agg.Passed)
	assert.False(t, agg.Fatal)
	assert.Equal(t, 20.0, agg.Score)
	// Issues concatenate in evaluator-list order.
	require.Len(t, agg.Issues, 3)
	assert.Equal(t, "tone is off", agg.Issues[0])
	assert.Equal(t, "implied medical claim", agg.Issues[1])
	assert.Equal(t, "missing license number", agg.Issues[2])
}

func TestRunEvaluatorErrorIsFatal(t *testing.T) {
	g, err := New(zap.NewNop(), []Evaluator{
		&stubEvaluator{name: "brand", verdict: &Verdict{Passed: true, Score: 100}},
		&stubEvaluator{name: "legal", err: errors.New("no tool call in response")},
	})
	require.NoError(t, err)

	agg := g.Run(context.Background(), "copy", EvalContext{})

	assert.False(t, agg.Passed, "a broken judge is never an implicit pass")
	assert.True(t, agg.Fatal)
	require.Len(t, agg.Issues, 1)
	assert.Contains(t, agg.Issues[0], "Verification evaluator failed")
	assert.Contains(t, agg.Issues[0], "legal")
	assert.Contains(t, agg.Issues[0], "no tool call")
	assert.Empty(t, agg.Results)
}

func TestRunConcurrentPreservesOrder(t *testing.T) {
	// The slower evaluator comes first in the list; its issues must still
	// come first in the aggregate.
	slow := &stubEvaluator{name: "slow", delay: 50 * time.Millisecond,
		verdict: &Verdict{Passed: false, Score: 30, Issues: []string{"slow issue"}}}
	fast := &stubEvaluator{name: "fast",
		verdict: &Verdict{Passed: false, Score: 60, Issues: []string{"fast issue"}}}

	g, err := New(zap.NewNop(), []Evaluator{slow, fast}, WithConcurrency())
	require.NoError(t, err)

	agg := g.Run(context.Background(), "copy", EvalContext{})

	assert.False(t, agg.Passed)
	assert.Equal(t, 30.0, agg.Score)
	require.Len(t, agg.Issues, 2)
	assert.Equal(t, "slow issue", agg.Issues[0])
	assert.Equal(t, "fast issue", agg.Issues[1])
	assert.Equal(t, int64(1), slow.calls.Load())
	assert.Equal(t, int64(1), fast.calls.Load())
}

func TestRunConcurrentErrorDoesNotSkipPeers(t *testing.T) {
	broken := &stubEvaluator{name: "broken", err: errors.New("timeout")}
	healthy := &stubEvaluator{name: "healthy", verdict: &Verdict{Passed: true, Score: 100}}

	g, err := New(zap.NewNop(), []Evaluator{broken, healthy}, WithConcurrency())
	require.NoError(t, err)

	agg := g.Run(context.Background(), "copy", EvalContext{})

	assert.True(t, agg.Fatal)
	assert.Equal(t, int64(1), healthy.calls.Load(), "peers still run; only aggregation aborts")
}

func TestRunTimeoutIsFatal(t *testing.T) {
	slow := &stubEvaluator{name: "slow", delay: time.Second,
		verdict: &Verdict{Passed: true, Score: 100}}

	g, err := New(zap.NewNop(), []Evaluator{slow})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	agg := g.Run(ctx, "copy", EvalContext{})
	assert.False(t, agg.Passed)
	assert.True(t, agg.Fatal)
}

func TestScannerEvaluator(t *testing.T) {
	ev := NewScannerEvaluator()

	clean, err := ev.Run(context.Background(), "Stop by our Denver store this weekend.", EvalContext{})
	require.NoError(t, err)
	assert.True(t, clean.Passed)
	assert.Equal(t, 100.0, clean.Score)

	blocked, err := ev.Run(context.Background(), "We ship nationwide!", EvalContext{})
	require.NoError(t, err)
	assert.False(t, blocked.Passed)
	assert.NotEmpty(t, blocked.Issues)
	assert.Less(t, blocked.Score, 100.0)

	warned, err := ev.Run(context.Background(), "Great for kids and families!", EvalContext{})
	require.NoError(t, err)
	assert.True(t, warned.Passed, "warnings do not fail the verdict")
	assert.NotEmpty(t, warned.Issues)
}

func TestScannerEvaluatorInGauntlet(t *testing.T) {
	g, err := New(zap.NewNop(), []Evaluator{NewScannerEvaluator()})
	require.NoError(t, err)

	agg := g.Run(context.Background(), "Candy-flavored gummies shipped nationwide!", EvalContext{Region: "CA"})
	assert.False(t, agg.Passed)
	assert.False(t, agg.Fatal)
	assert.NotEmpty(t, agg.Issues)
}
