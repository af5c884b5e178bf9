// Package gauntlet runs content through an ordered set of verification
// evaluators and merges their verdicts into a single gate decision.
//
// An Evaluator is a capability, not a hierarchy: anything that can judge
// content and return a structured Verdict participates. The reference
// evaluators are the deterministic message scanner and the judge-model
// compliance auditor in internal/judge; a deployment composes whichever mix
// its risk posture calls for.
//
// Aggregation is deterministic and fail-closed:
//   - the aggregate passes only if every evaluator passed (AND)
//   - issues concatenate in evaluator-list order, even when evaluators ran
//     concurrently
//   - the aggregate score is the minimum of member scores
//   - an evaluator that errors (timeout, garbled response) produces a fatal
//     aggregate, never an implicit pass
//
// The fatal flag separates "the content is non-compliant" from "the
// verification pipeline is broken" so operators can tell the two apart.
package gauntlet
