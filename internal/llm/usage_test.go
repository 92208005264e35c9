package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/tanmodi/oorja-backend/internal/common"
)

func TestNormalizeUsagePromptCompletion(t *testing.T) {
	u, err := NormalizeUsage("gpt-4o", UsagePromptCompletion, UsagePayload{
		PromptTokens: 1200, CompletionTokens: 300,
	})
	if err != nil {
		t.Fatalf("NormalizeUsage error: %v", err)
	}
	if u.PromptTokens != 1200 || u.CompletionTokens != 300 {
		t.Fatalf("usage = %+v", u)
	}
	if u.TotalTokens != 1500 {
		t.Fatalf("total = %d, want prompt+completion = 1500", u.TotalTokens)
	}
}

func TestNormalizeUsageInputOutput(t *testing.T) {
	u, err := NormalizeUsage("o3-mini", UsageInputOutput, UsagePayload{
		InputTokens: 900, OutputTokens: 100, TotalTokens: 1000,
	})
	if err != nil {
		t.Fatalf("NormalizeUsage error: %v", err)
	}
	if u.PromptTokens != 900 || u.CompletionTokens != 100 || u.TotalTokens != 1000 {
		t.Fatalf("usage = %+v", u)
	}
}

func TestNormalizeUsageCrossConvention(t *testing.T) {
	// A gateway may report prompt/completion names even for an
	// input/output-style model; whichever side is populated wins.
	u, err := NormalizeUsage("o3-mini", UsageInputOutput, UsagePayload{
		PromptTokens: 50, CompletionTokens: 5,
	})
	if err != nil {
		t.Fatalf("NormalizeUsage error: %v", err)
	}
	if u.PromptTokens != 50 || u.CompletionTokens != 5 || u.TotalTokens != 55 {
		t.Fatalf("usage = %+v", u)
	}
}

func TestNormalizeUsageMissingCounters(t *testing.T) {
	_, err := NormalizeUsage("gpt-4o", UsagePromptCompletion, UsagePayload{})
	if err == nil {
		t.Fatal("empty usage accepted")
	}
	if !errors.Is(err, common.ErrInvocation) {
		t.Fatalf("error = %v, want ErrInvocation", err)
	}
	if !strings.Contains(err.Error(), "gpt-4o") {
		t.Fatalf("error does not name the model: %v", err)
	}
}

func TestRegistryResolve(t *testing.T) {
	r := DefaultRegistry()

	if got := r.Resolve("").ID; got != DefaultModelID {
		t.Fatalf("empty id resolved to %s, want %s", got, DefaultModelID)
	}

	p := r.Resolve("gpt-5-mini")
	if p.SupportsTemperature {
		t.Fatal("gpt-5-mini must not accept a temperature hint")
	}
	if p.UsageStyle != UsageInputOutput {
		t.Fatalf("gpt-5-mini usage style = %s", p.UsageStyle)
	}

	unknown := r.Resolve("totally-new-model")
	if unknown.ID != "totally-new-model" {
		t.Fatalf("unknown id rewritten to %s", unknown.ID)
	}
	if unknown.SupportsTemperature {
		t.Fatal("unknown models must default to no temperature hint")
	}
}

func TestRegistryWithDefault(t *testing.T) {
	r := DefaultRegistry().WithDefault("gpt-4o")
	if r.Default().ID != "gpt-4o" {
		t.Fatalf("default = %s, want gpt-4o", r.Default().ID)
	}
	// Empty-id requests must now resolve to the configured default.
	if got := r.Resolve("").ID; got != "gpt-4o" {
		t.Fatalf("empty id resolved to %s, want gpt-4o", got)
	}

	// An unregistered default is added rather than ignored.
	r = DefaultRegistry().WithDefault("house-model")
	if r.Default().ID != "house-model" {
		t.Fatalf("default = %s, want house-model", r.Default().ID)
	}
	if p, ok := r.Lookup("house-model"); !ok || p.SupportsTemperature {
		t.Fatalf("house-model profile = %+v (ok=%v)", p, ok)
	}

	// Blank leaves the registry untouched.
	if got := DefaultRegistry().WithDefault("").Default().ID; got != DefaultModelID {
		t.Fatalf("blank default re-pointed to %s", got)
	}
}

func TestRegistryIDsOrdered(t *testing.T) {
	r := NewRegistry([]ModelProfile{
		{ID: "b"}, {ID: "a"}, {ID: "b"}, // duplicate ignored
	}, "a")
	ids := r.IDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("ids = %v", ids)
	}
	if r.Default().ID != "a" {
		t.Fatalf("default = %s", r.Default().ID)
	}
}
