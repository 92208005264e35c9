package llm

import (
	"fmt"

	"github.com/tanmodi/oorja-backend/internal/common"
)

// UsagePayload mirrors the usage block of a generation API response. It
// carries both field-naming conventions so one decode handles either shape.
type UsagePayload struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	InputTokens      int `json:"input_tokens"`
	OutputTokens     int `json:"output_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NormalizeUsage folds a raw usage payload into Usage according to the
// model's reporting style. A payload with no token counts at all is treated
// as missing usage data, which is an invocation failure for that model.
func NormalizeUsage(model string, style UsageStyle, p UsagePayload) (Usage, error) {
	var u Usage
	switch style {
	case UsageInputOutput:
		u.PromptTokens = p.InputTokens
		u.CompletionTokens = p.OutputTokens
	default:
		u.PromptTokens = p.PromptTokens
		u.CompletionTokens = p.CompletionTokens
	}

	// Some gateways report only the other convention regardless of model
	// family; take whichever side is populated.
	if u.PromptTokens == 0 && u.CompletionTokens == 0 {
		if p.PromptTokens > 0 || p.CompletionTokens > 0 {
			u.PromptTokens = p.PromptTokens
			u.CompletionTokens = p.CompletionTokens
		} else if p.InputTokens > 0 || p.OutputTokens > 0 {
			u.PromptTokens = p.InputTokens
			u.CompletionTokens = p.OutputTokens
		}
	}

	if u.PromptTokens == 0 && u.CompletionTokens == 0 && p.TotalTokens == 0 {
		return Usage{}, common.NewAppError("INVOCATION_ERROR",
			fmt.Sprintf("model %s: response carried no usage data", model), common.ErrInvocation)
	}

	u.TotalTokens = p.TotalTokens
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u, nil
}
