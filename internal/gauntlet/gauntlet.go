package gauntlet

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/markitbot/complianced/internal/gauntlet"

// Gauntlet holds an ordered evaluator list. Immutable after construction;
// safe for concurrent Run calls.
type Gauntlet struct {
	evaluators []Evaluator
	logger     *zap.Logger
	concurrent bool
	tracer     trace.Tracer
}

// Option configures a Gauntlet.
type Option func(*Gauntlet)

// WithConcurrency fans evaluators out in parallel, bounding total latency to
// the slowest single judge. Aggregation order is unaffected.
func WithConcurrency() Option {
	return func(g *Gauntlet) { g.concurrent = true }
}

// New creates a gauntlet over an ordered evaluator list.
func New(logger *zap.Logger, evaluators []Evaluator, opts ...Option) (*Gauntlet, error) {
	if len(evaluators) == 0 {
		return nil, fmt.Errorf("at least one evaluator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Gauntlet{
		evaluators: evaluators,
		logger:     logger.Named("gauntlet"),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run executes every evaluator over the content and merges the verdicts.
//
// Any evaluator error yields a fatal aggregate: a broken judge must never be
// treated as an implicit pass. Otherwise the aggregate is the AND of member
// passes, the concatenation of member issues in evaluator-list order, and
// the minimum member score. When evaluators run concurrently, aggregation
// waits for all of them to settle; there is no partial aggregation.
func (g *Gauntlet) Run(ctx context.Context, content string, evalCtx EvalContext) *AggregateVerdict {
	ctx, span := g.tracer.Start(ctx, "gauntlet.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("evaluators", len(g.evaluators)),
		attribute.Bool("concurrent", g.concurrent),
		attribute.String("region", evalCtx.Region),
	)

	start := time.Now()
	verdicts := make([]*Verdict, len(g.evaluators))
	errs := make([]error, len(g.evaluators))

	if g.concurrent {
		eg, gctx := errgroup.WithContext(ctx)
		for i, ev := range g.evaluators {
			eg.Go(func() error {
				verdicts[i], errs[i] = ev.Run(gctx, content, evalCtx)
				// Errors are collected per slot, not returned: a failing
				// evaluator must not cancel its peers mid-judgment, and the
				// fatal verdict needs the earliest evaluator's cause.
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for i, ev := range g.evaluators {
			verdicts[i], errs[i] = ev.Run(ctx, content, evalCtx)
		}
	}

	// First evaluator error (in list order) aborts the aggregate.
	for i, err := range errs {
		if err == nil {
			continue
		}
		name := g.evaluators[i].Name()
		g.logger.Error("evaluator failed",
			zap.String("evaluator", name),
			zap.Error(err),
		)
		recordRun("fatal", time.Since(start))
		span.SetStatus(codes.Error, err.Error())
		return &AggregateVerdict{
			Passed: false,
			Fatal:  true,
			Issues: []string{fmt.Sprintf("Verification evaluator failed: %s: %v", name, err)},
		}
	}

	aggregate := merge(g.evaluators, verdicts)

	outcome := "pass"
	if !aggregate.Passed {
		outcome = "fail"
	}
	recordRun(outcome, time.Since(start))
	for i, v := range verdicts {
		recordVerdict(g.evaluators[i].Name(), v.Passed)
	}

	g.logger.Info("gauntlet run complete",
		zap.Bool("passed", aggregate.Passed),
		zap.Float64("score", aggregate.Score),
		zap.Int("issues", len(aggregate.Issues)),
		zap.Duration("elapsed", time.Since(start)),
	)
	span.SetAttributes(
		attribute.Bool("passed", aggregate.Passed),
		attribute.Float64("score", aggregate.Score),
	)

	return aggregate
}

// merge applies the aggregation invariant: AND of passes, issue
// concatenation in evaluator order, minimum score, first suggestion.
func merge(evaluators []Evaluator, verdicts []*Verdict) *AggregateVerdict {
	aggregate := &AggregateVerdict{Passed: true, Score: 100}

	for i, v := range verdicts {
		aggregate.Passed = aggregate.Passed && v.Passed
		if v.Score < aggregate.Score {
			aggregate.Score = v.Score
		}
		aggregate.Issues = append(aggregate.Issues, v.Issues...)
		if aggregate.Suggestion == "" {
			aggregate.Suggestion = v.Suggestion
		}
		aggregate.Results = append(aggregate.Results, EvaluatorResult{
			Evaluator: evaluators[i].Name(),
			Verdict:   *v,
		})
	}

	return aggregate
}
