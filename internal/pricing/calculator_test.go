package pricing

import (
	"testing"

	"github.com/tanmodi/oorja-backend/internal/llm"
)

func TestCalculateExactMillionInput(t *testing.T) {
	// gpt-4o is priced at $2.50 per million input tokens.
	u := &llm.Usage{PromptTokens: 1_000_000, CompletionTokens: 0, TotalTokens: 1_000_000}
	res := Calculate(DefaultTable(), "gpt-4o", u)
	if !res.Available {
		t.Fatalf("pricing degraded unexpectedly: %+v", res)
	}
	if res.InputCost != "$2.500000" {
		t.Fatalf("input cost = %s, want $2.500000", res.InputCost)
	}
	if res.OutputCost != "$0.000000" {
		t.Fatalf("output cost = %s", res.OutputCost)
	}
	if res.TotalCost != "$2.500000" {
		t.Fatalf("total cost = %s", res.TotalCost)
	}
}

func TestCalculateUnknownModelFallsBackToDefault(t *testing.T) {
	u := &llm.Usage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000}
	res := Calculate(DefaultTable(), "model-nobody-priced", u)
	if !res.Available {
		t.Fatalf("fallback must not degrade: %+v", res)
	}
	if res.Model != "gpt-4o-mini" {
		t.Fatalf("priced as %s, want default gpt-4o-mini", res.Model)
	}
	// 0.15 input + 0.60 output for one million tokens each.
	if res.InputCost != "$0.150000" || res.OutputCost != "$0.600000" || res.TotalCost != "$0.750000" {
		t.Fatalf("costs = %s / %s / %s", res.InputCost, res.OutputCost, res.TotalCost)
	}
}

func TestCalculateDegradesNeverFails(t *testing.T) {
	table := DefaultTable()

	for name, u := range map[string]*llm.Usage{
		"nil usage":       nil,
		"negative prompt": {PromptTokens: -1, CompletionTokens: 10},
		"negative output": {PromptTokens: 10, CompletionTokens: -5},
	} {
		res := Calculate(table, "gpt-4o", u)
		if res.Available {
			t.Fatalf("%s: expected degraded result, got %+v", name, res)
		}
		if res.TotalCost != "N/A" || res.InputCost != "N/A" || res.OutputCost != "N/A" {
			t.Fatalf("%s: degraded result must be N/A, got %+v", name, res)
		}
	}

	if res := Calculate(nil, "gpt-4o", &llm.Usage{PromptTokens: 1}); res.Available {
		t.Fatalf("nil table must degrade, got %+v", res)
	}
}

func TestCalculateSmallUsageSixDecimals(t *testing.T) {
	u := &llm.Usage{PromptTokens: 2500, CompletionTokens: 150}
	res := Calculate(DefaultTable(), "gpt-4o-mini", u)
	// 2500/1e6*0.15 = 0.000375; 150/1e6*0.60 = 0.00009
	if res.InputCost != "$0.000375" {
		t.Fatalf("input cost = %s", res.InputCost)
	}
	if res.OutputCost != "$0.000090" {
		t.Fatalf("output cost = %s", res.OutputCost)
	}
	if res.TotalCost != "$0.000465" {
		t.Fatalf("total cost = %s", res.TotalCost)
	}
}

func TestTableMerge(t *testing.T) {
	table := DefaultTable()
	table.Merge(map[string]Rates{
		"gpt-4o":    {InputPerMillion: 5.0, OutputPerMillion: 20.0},
		"new-model": {InputPerMillion: 1.0, OutputPerMillion: 2.0},
	})

	r, id := table.Lookup("gpt-4o")
	if id != "gpt-4o" || r.InputPerMillion != 5.0 {
		t.Fatalf("merge did not replace gpt-4o: %+v as %s", r, id)
	}
	if _, id := table.Lookup("new-model"); id != "new-model" {
		t.Fatalf("merge did not add new-model, priced as %s", id)
	}
}
