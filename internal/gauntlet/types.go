package gauntlet

import "context"

// Verdict is one evaluator's structured judgment of a piece of content.
type Verdict struct {
	// Passed reports whether the content cleared this evaluator's bar.
	Passed bool `json:"passed"`

	// Score is an evaluator-defined confidence/quality score in [0, 100].
	Score float64 `json:"score"`

	// Issues itemizes what the evaluator objected to. May be non-empty even
	// when Passed is true (non-blocking notices).
	Issues []string `json:"issues,omitempty"`

	// Suggestion is an optional remediation hint.
	Suggestion string `json:"suggestion,omitempty"`
}

// EvalContext carries the situational facts an evaluator may weigh alongside
// the content itself.
type EvalContext struct {
	// Region is the region code whose rules govern the content, if any.
	Region string `json:"region,omitempty"`

	// Channel names where the content will run (sms, email, social, web).
	Channel string `json:"channel,omitempty"`

	// Extra holds caller-supplied key/value context.
	Extra map[string]string `json:"extra,omitempty"`
}

// Evaluator judges content. Implementations must treat content as immutable
// and be safe for concurrent use; the gauntlet may fan evaluators out in
// parallel.
type Evaluator interface {
	// Name identifies the evaluator in verdicts, logs, and metrics.
	Name() string

	// Run judges the content. A returned error means the evaluator itself
	// failed (transport failure, malformed judge response, timeout) and is
	// never interpreted as a pass or fail of the content.
	Run(ctx context.Context, content string, evalCtx EvalContext) (*Verdict, error)
}

// EvaluatorResult pairs an evaluator's name with its verdict in the
// aggregate, preserving evaluator-list order.
type EvaluatorResult struct {
	Evaluator string  `json:"evaluator"`
	Verdict   Verdict `json:"verdict"`
}

// AggregateVerdict is the gauntlet's merged gate decision.
type AggregateVerdict struct {
	// Passed is the AND of every evaluator's Passed.
	Passed bool `json:"passed"`

	// Score is the minimum member score (most conservative).
	Score float64 `json:"score"`

	// Issues concatenates member issues in evaluator-list order.
	Issues []string `json:"issues,omitempty"`

	// Suggestion is the first non-empty member suggestion.
	Suggestion string `json:"suggestion,omitempty"`

	// Fatal marks a pipeline failure rather than a content judgment. A
	// fatal verdict always has Passed false.
	Fatal bool `json:"fatal,omitempty"`

	// Results holds the per-evaluator verdicts for audit display. Empty on
	// fatal verdicts.
	Results []EvaluatorResult `json:"results,omitempty"`
}
