package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/markitbot/complianced/internal/gauntlet"
)

// auditToolName is the single tool the judge must invoke to deliver its
// verdict.
const auditToolName = "submit_audit"

// auditPrompt is the judge-role system prompt. The model is told it must
// answer through the tool; anything else is rejected by the evaluator.
const auditPrompt = `You are a cannabis marketing compliance officer reviewing customer-facing copy.

Audit the provided content for:
1. Medical or therapeutic claims (cannabis marketing may not claim to cure, treat, or prevent any condition)
2. Appeal to minors (imagery, flavors, or language attractive to anyone under 21)
3. Interstate commerce (any suggestion of shipping or delivering across state lines)
4. Jurisdiction fit: whether the copy is appropriate for the region and channel given in the context

You MUST respond by calling the submit_audit tool exactly once with your verdict.
Do not reply with prose. Set passed=false if the content has any blocking issue,
score the overall compliance quality from 0 to 100, itemize every issue found,
and suggest a remediation when one exists.`

// auditToolSchema is the submit_audit argument schema supplied to the model.
var auditToolSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"passed": map[string]any{
			"type":        "boolean",
			"description": "Whether the content passes compliance review",
		},
		"score": map[string]any{
			"type":        "number",
			"minimum":     0,
			"maximum":     100,
			"description": "Overall compliance quality score",
		},
		"issues": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Every compliance issue found, one entry each",
		},
		"suggestion": map[string]any{
			"type":        "string",
			"description": "Optional remediation hint",
		},
	},
	"required": []string{"passed", "score", "issues"},
}

// auditPayload is the expected submit_audit argument shape. Pointer fields
// distinguish "absent" from zero values during strict validation.
type auditPayload struct {
	Passed     *bool    `json:"passed"`
	Score      *float64 `json:"score"`
	Issues     []string `json:"issues"`
	Suggestion string   `json:"suggestion"`
}

// ComplianceEvaluator judges marketing copy through a judge model. It
// implements gauntlet.Evaluator.
type ComplianceEvaluator struct {
	invoker Invoker
	logger  *zap.Logger
	timeout time.Duration
}

// NewComplianceEvaluator wraps an Invoker as a gauntlet evaluator. timeout
// bounds each judge round trip; zero means the caller's context governs.
func NewComplianceEvaluator(invoker Invoker, logger *zap.Logger, timeout time.Duration) (*ComplianceEvaluator, error) {
	if invoker == nil {
		return nil, fmt.Errorf("invoker is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplianceEvaluator{
		invoker: invoker,
		logger:  logger.Named("judge"),
		timeout: timeout,
	}, nil
}

// Name implements gauntlet.Evaluator.
func (e *ComplianceEvaluator) Name() string { return "compliance-audit" }

// Run implements gauntlet.Evaluator: one forced tool-call round trip,
// strictly validated. Every failure mode (transport error, no tool call,
// wrong tool, malformed payload) returns an error so the gauntlet fails
// closed rather than misreading a broken judge as a verdict.
func (e *ComplianceEvaluator) Run(ctx context.Context, content string, evalCtx gauntlet.EvalContext) (*gauntlet.Verdict, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.invoker.Invoke(ctx, InvokeRequest{
		System: auditPrompt,
		User:   buildUserMessage(content, evalCtx),
		Tools: []ToolSchema{{
			Name:        auditToolName,
			Description: "Submit the compliance audit verdict for the reviewed content",
			Parameters:  auditToolSchema,
		}},
		ForceTool: auditToolName,
	})
	if err != nil {
		return nil, fmt.Errorf("judge round trip failed: %w", err)
	}

	verdict, err := parseAudit(resp)
	if err != nil {
		e.logger.Warn("judge returned an invalid verdict", zap.Error(err))
		return nil, err
	}

	e.logger.Debug("judge verdict",
		zap.Bool("passed", verdict.Passed),
		zap.Float64("score", verdict.Score),
		zap.Int("issues", len(verdict.Issues)),
	)
	return verdict, nil
}

// buildUserMessage renders the judged content plus its context block.
func buildUserMessage(content string, evalCtx gauntlet.EvalContext) string {
	var b strings.Builder
	b.WriteString("Content to audit:\n")
	b.WriteString(content)

	var lines []string
	if evalCtx.Region != "" {
		lines = append(lines, "region: "+evalCtx.Region)
	}
	if evalCtx.Channel != "" {
		lines = append(lines, "channel: "+evalCtx.Channel)
	}
	keys := make([]string, 0, len(evalCtx.Extra))
	for k := range evalCtx.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, k+": "+evalCtx.Extra[k])
	}
	if len(lines) > 0 {
		b.WriteString("\n\nContext:\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

// parseAudit validates the judge response against the forced-tool contract.
func parseAudit(resp *Response) (*gauntlet.Verdict, error) {
	if resp == nil || resp.ToolCall == nil {
		return nil, fmt.Errorf("judge returned no tool call")
	}
	if resp.ToolCall.Name != auditToolName {
		return nil, fmt.Errorf("judge called unrecognized tool %q", resp.ToolCall.Name)
	}

	dec := json.NewDecoder(bytes.NewReader(resp.ToolCall.Args))
	dec.DisallowUnknownFields()
	var payload auditPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("judge payload failed validation: %w", err)
	}
	if payload.Passed == nil {
		return nil, fmt.Errorf("judge payload failed validation: missing passed")
	}
	if payload.Score == nil {
		return nil, fmt.Errorf("judge payload failed validation: missing score")
	}
	if *payload.Score < 0 || *payload.Score > 100 {
		return nil, fmt.Errorf("judge payload failed validation: score %v out of range", *payload.Score)
	}

	return &gauntlet.Verdict{
		Passed:     *payload.Passed,
		Score:      *payload.Score,
		Issues:     payload.Issues,
		Suggestion: payload.Suggestion,
	}, nil
}
