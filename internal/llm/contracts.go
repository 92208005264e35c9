package llm

import "context"

// Prompt is the fixed two-part instruction sent to every model variant.
type Prompt struct {
	System string
	User   string
}

// Usage holds normalized token counters for one invocation.
// TotalTokens always equals PromptTokens+CompletionTokens when the upstream
// API did not report a total itself.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Reply is the raw outcome of one generation call.
type Reply struct {
	Text  string
	Usage Usage
}

// Invoker is the interface the pipeline depends on. One call, synchronous
// from the caller's perspective; implementations must name the offending
// model in every error they return.
type Invoker interface {
	Invoke(ctx context.Context, profile ModelProfile, prompt Prompt) (Reply, error)
}

// BillFields is the reconciled field map as extracted by the model.
// Values pass through as-is (strings/numbers/nulls); no per-field validation.
type BillFields map[string]any
