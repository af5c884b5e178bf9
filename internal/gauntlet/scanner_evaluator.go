package gauntlet

import (
	"context"

	"github.com/markitbot/complianced/internal/scanner"
)

// Per-finding score deductions. Blocking findings cost more than warnings;
// the floor is zero.
const (
	blockingDeduction = 40
	warningDeduction  = 10
)

// ScannerEvaluator adapts the deterministic message scanner to the Evaluator
// capability, so heuristic and judge-model checks compose in one gauntlet.
type ScannerEvaluator struct{}

// NewScannerEvaluator returns the scanner-backed evaluator.
func NewScannerEvaluator() *ScannerEvaluator {
	return &ScannerEvaluator{}
}

// Name implements Evaluator.
func (e *ScannerEvaluator) Name() string { return "message-scanner" }

// Run implements Evaluator. The scanner is pure, so this never errors;
// warnings surface as issues without failing the verdict.
func (e *ScannerEvaluator) Run(_ context.Context, content string, _ EvalContext) (*Verdict, error) {
	result := scanner.Scan(content)

	verdict := &Verdict{
		Passed: result.Allowed,
		Score:  100,
	}
	verdict.Issues = append(verdict.Issues, result.Errors...)
	verdict.Issues = append(verdict.Issues, result.Warnings...)

	verdict.Score -= float64(len(result.Errors) * blockingDeduction)
	verdict.Score -= float64(len(result.Warnings) * warningDeduction)
	if verdict.Score < 0 {
		verdict.Score = 0
	}

	return verdict, nil
}
