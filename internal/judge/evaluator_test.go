package judge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markitbot/complianced/internal/gauntlet"
)

var _ gauntlet.Evaluator = (*ComplianceEvaluator)(nil)

// fakeInvoker returns a canned response or error and records the request.
type fakeInvoker struct {
	resp *Response
	err  error
	last InvokeRequest
}

func (f *fakeInvoker) Invoke(_ context.Context, req InvokeRequest) (*Response, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func auditCall(t *testing.T, payload any) *Response {
	t.Helper()
	args, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Response{ToolCall: &ToolCall{Name: auditToolName, Args: args}}
}

func TestRunValidVerdict(t *testing.T) {
	invoker := &fakeInvoker{resp: auditCall(t, map[string]any{
		"passed":     false,
		"score":      35,
		"issues":     []string{"implied medical claim"},
		"suggestion": "remove the word cures",
	})}
	ev, err := NewComplianceEvaluator(invoker, zap.NewNop(), 0)
	require.NoError(t, err)

	verdict, err := ev.Run(context.Background(), "This cures everything!", gauntlet.EvalContext{Region: "CA", Channel: "sms"})
	require.NoError(t, err)

	assert.False(t, verdict.Passed)
	assert.Equal(t, 35.0, verdict.Score)
	assert.Equal(t, []string{"implied medical claim"}, verdict.Issues)
	assert.Equal(t, "remove the word cures", verdict.Suggestion)

	// The round trip forces the audit tool and carries the context block.
	assert.Equal(t, auditToolName, invoker.last.ForceTool)
	require.Len(t, invoker.last.Tools, 1)
	assert.Equal(t, auditToolName, invoker.last.Tools[0].Name)
	assert.Contains(t, invoker.last.User, "This cures everything!")
	assert.Contains(t, invoker.last.User, "region: CA")
	assert.Contains(t, invoker.last.User, "channel: sms")
}

func TestRunRejectsNonVerdictResponses(t *testing.T) {
	tests := []struct {
		name    string
		resp    *Response
		wantErr string
	}{
		{
			name:    "free text instead of a tool call",
			resp:    &Response{Text: "Looks fine to me, ship it!"},
			wantErr: "no tool call",
		},
		{
			name:    "unrecognized tool",
			resp:    &Response{ToolCall: &ToolCall{Name: "approve_content", Args: json.RawMessage(`{}`)}},
			wantErr: "unrecognized tool",
		},
		{
			name:    "garbled payload",
			resp:    &Response{ToolCall: &ToolCall{Name: auditToolName, Args: json.RawMessage(`{"passed": tru`)}},
			wantErr: "failed validation",
		},
		{
			name:    "unknown payload field",
			resp:    &Response{ToolCall: &ToolCall{Name: auditToolName, Args: json.RawMessage(`{"passed":true,"score":90,"issues":[],"verdict":"ok"}`)}},
			wantErr: "failed validation",
		},
		{
			name:    "missing passed",
			resp:    &Response{ToolCall: &ToolCall{Name: auditToolName, Args: json.RawMessage(`{"score":90,"issues":[]}`)}},
			wantErr: "missing passed",
		},
		{
			name:    "missing score",
			resp:    &Response{ToolCall: &ToolCall{Name: auditToolName, Args: json.RawMessage(`{"passed":true,"issues":[]}`)}},
			wantErr: "missing score",
		},
		{
			name:    "score out of range",
			resp:    &Response{ToolCall: &ToolCall{Name: auditToolName, Args: json.RawMessage(`{"passed":true,"score":250,"issues":[]}`)}},
			wantErr: "out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := NewComplianceEvaluator(&fakeInvoker{resp: tt.resp}, zap.NewNop(), 0)
			require.NoError(t, err)

			verdict, err := ev.Run(context.Background(), "copy", gauntlet.EvalContext{})
			require.Error(t, err, "a shape failure is an evaluator error, never a pass")
			assert.Nil(t, verdict)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunTransportErrorPropagates(t *testing.T) {
	ev, err := NewComplianceEvaluator(&fakeInvoker{err: errors.New("connection refused")}, zap.NewNop(), 0)
	require.NoError(t, err)

	_, err = ev.Run(context.Background(), "copy", gauntlet.EvalContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "judge round trip failed")
}

func TestRunAppliesTimeout(t *testing.T) {
	slow := invokerFunc(func(ctx context.Context, _ InvokeRequest) (*Response, error) {
		select {
		case <-time.After(time.Second):
			return &Response{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	ev, err := NewComplianceEvaluator(slow, zap.NewNop(), 10*time.Millisecond)
	require.NoError(t, err)

	_, err = ev.Run(context.Background(), "copy", gauntlet.EvalContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// invokerFunc adapts a function to Invoker.
type invokerFunc func(ctx context.Context, req InvokeRequest) (*Response, error)

func (f invokerFunc) Invoke(ctx context.Context, req InvokeRequest) (*Response, error) {
	return f(ctx, req)
}

func TestNewComplianceEvaluatorRequiresInvoker(t *testing.T) {
	_, err := NewComplianceEvaluator(nil, zap.NewNop(), 0)
	require.Error(t, err)
}

func TestGauntletFailsClosedOnBrokenJudge(t *testing.T) {
	broken, err := NewComplianceEvaluator(
		&fakeInvoker{resp: &Response{Text: "LGTM"}}, zap.NewNop(), 0)
	require.NoError(t, err)

	g, err := gauntlet.New(zap.NewNop(), []gauntlet.Evaluator{broken})
	require.NoError(t, err)

	agg := g.Run(context.Background(), "copy", gauntlet.EvalContext{})
	assert.False(t, agg.Passed)
	assert.True(t, agg.Fatal)
}
