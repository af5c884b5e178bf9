package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ToolSchema describes one tool offered to the judge model.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	// Parameters is a JSON-schema object describing the tool's arguments.
	Parameters map[string]any `json:"parameters"`
}

// ToolCall is the model's tool invocation: the tool name and the raw
// argument payload, validated by the caller.
type ToolCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Response is one judge round trip's outcome: either a tool call or free
// text, never both.
type Response struct {
	ToolCall *ToolCall `json:"tool_call,omitempty"`
	Text     string    `json:"text,omitempty"`
}

// InvokeRequest is one judge round trip.
type InvokeRequest struct {
	// System is the judge-role prompt.
	System string

	// User is the judged content plus context.
	User string

	// Tools are the schemas offered to the model.
	Tools []ToolSchema

	// ForceTool, when set, instructs the model that it must respond by
	// invoking the named tool.
	ForceTool string

	// MaxTokens caps the response size. Zero uses the client default.
	MaxTokens int
}

// Invoker is the generic tool-calling judge-model client this core
// consumes. The HTTP clients in this package are its reference
// implementations; tests substitute fakes.
type Invoker interface {
	Invoke(ctx context.Context, req InvokeRequest) (*Response, error)
}

// Provider selects a judge backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Config configures a judge client.
type Config struct {
	Provider Provider      `koanf:"provider"`
	Model    string        `koanf:"model"`
	APIKey   string        `koanf:"api_key"`
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// NewInvoker builds the configured provider's client.
func NewInvoker(cfg Config) (Invoker, error) {
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return newAnthropicClient(cfg)
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown judge provider %q", cfg.Provider)
	}
}

// retryableError marks a transport failure worth one more attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }

func (e *retryableError) Unwrap() error { return e.err }

// isRetryable reports whether err is a transient transport failure.
func isRetryable(err error) bool {
	for e := err; e != nil; {
		if _, ok := e.(*retryableError); ok {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return false
}
