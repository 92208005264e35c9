package pricing

import (
	"fmt"

	"github.com/tanmodi/oorja-backend/internal/llm"
)

// Result is the derived, read-only cost estimate for one invocation.
// Amounts are formatted to six decimal places of USD; a degraded result
// carries "N/A" amounts and Available=false, never an error.
type Result struct {
	Model      string `json:"model"`
	InputCost  string `json:"input_cost"`
	OutputCost string `json:"output_cost"`
	TotalCost  string `json:"total_cost"`
	Currency   string `json:"currency"`
	Available  bool   `json:"available"`
}

// Unavailable is the explicit degraded pricing result. Pricing faults never
// abort a request; they resolve to this value instead.
func Unavailable(model string) Result {
	return Result{
		Model:      model,
		InputCost:  "N/A",
		OutputCost: "N/A",
		TotalCost:  "N/A",
		Currency:   "USD",
		Available:  false,
	}
}

// Calculate prices one invocation's usage against the table. It never
// fails: a nil or malformed usage (negative counters) degrades to
// Unavailable rather than propagating an error.
func Calculate(t *Table, model string, u *llm.Usage) Result {
	if t == nil || u == nil {
		return Unavailable(model)
	}
	if u.PromptTokens < 0 || u.CompletionTokens < 0 {
		return Unavailable(model)
	}

	rates, pricedAs := t.Lookup(model)
	in := float64(u.PromptTokens) / 1_000_000.0 * rates.InputPerMillion
	out := float64(u.CompletionTokens) / 1_000_000.0 * rates.OutputPerMillion

	return Result{
		Model:      pricedAs,
		InputCost:  formatUSD(in),
		OutputCost: formatUSD(out),
		TotalCost:  formatUSD(in + out),
		Currency:   "USD",
		Available:  true,
	}
}

func formatUSD(v float64) string {
	return fmt.Sprintf("$%.6f", v)
}
