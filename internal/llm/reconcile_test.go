package llm

import (
	"strings"
	"testing"
)

func TestReconcileEquivalentDeliveries(t *testing.T) {
	// The same object must parse identically raw, fenced, or buried in prose.
	cases := map[string]string{
		"raw":          `{"A":"1"}`,
		"fenced":       "```json\n{\"A\":\"1\"}\n```",
		"fenced-plain": "```\n{\"A\":\"1\"}\n```",
		"prose":        "Sure! Here is the data you asked for:\n{\"A\":\"1\"}\nLet me know if you need more.",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Reconcile("gpt-4o-mini", raw)
			if err != nil {
				t.Fatalf("Reconcile(%q) error: %v", raw, err)
			}
			if len(got) != 1 || got["A"] != "1" {
				t.Fatalf("Reconcile(%q) = %v, want {A:1}", raw, got)
			}
		})
	}
}

func TestReconcileRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[1,2,3]`, `"just a string"`, `42`, `true`} {
		if _, err := Reconcile("gpt-4o", raw); err == nil {
			t.Fatalf("Reconcile(%q) accepted a non-object", raw)
		} else if !strings.Contains(err.Error(), "invalid data format") && !strings.Contains(err.Error(), "no JSON object") {
			t.Fatalf("Reconcile(%q) error = %v, want data-format rejection", raw, err)
		}
	}
}

func TestReconcileArrayIsInvalidDataFormat(t *testing.T) {
	// Arrays stay rejected even when they contain objects; the object
	// inside must not be mined out by a later strategy.
	for _, raw := range []string{
		`[1,2,3]`,
		`[{"a":"1"}]`,
		`[{"total_amount_due":"100.00"},{"total_amount_due":"200.00"}]`,
		"```json\n[{\"a\":\"1\"}]\n```",
	} {
		_, err := Reconcile("gpt-4o", raw)
		if err == nil {
			t.Fatalf("Reconcile(%q) accepted an array", raw)
		}
		if !strings.Contains(err.Error(), "invalid data format") {
			t.Fatalf("Reconcile(%q) error = %v, want invalid data format", raw, err)
		}
	}
}

func TestReconcileErrorNamesModelAndTruncates(t *testing.T) {
	long := "garbage " + strings.Repeat("x", 2000)
	_, err := Reconcile("o3-mini", long)
	if err == nil {
		t.Fatal("garbage accepted")
	}
	msg := err.Error()
	if !strings.Contains(msg, "o3-mini") {
		t.Fatalf("error does not name the model: %v", msg)
	}
	if len(msg) > maxDiagnosticLen+200 {
		t.Fatalf("diagnostic excerpt not truncated, len=%d", len(msg))
	}
}

func TestReconcileNullsPassThrough(t *testing.T) {
	got, err := Reconcile("gpt-4o-mini", `{"total_amount_due":"1432.50","subsidy_amount":null}`)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if v, ok := got["subsidy_amount"]; !ok || v != nil {
		t.Fatalf("null field not passed through: %v", got)
	}
}

func TestBraceSpanTracksStrings(t *testing.T) {
	raw := `noise {"note":"uses { and } inside","n":2} trailing`
	got, ok := braceSpan(raw)
	if !ok {
		t.Fatal("braceSpan found nothing")
	}
	if got != `{"note":"uses { and } inside","n":2}` {
		t.Fatalf("braceSpan = %q", got)
	}
}

func TestFencedBlockVariants(t *testing.T) {
	if _, ok := fencedBlock("no fence here"); ok {
		t.Fatal("fencedBlock matched text without a fence")
	}
	got, ok := fencedBlock("prefix ```json\n{\"k\":1}\n``` suffix")
	if !ok || got != `{"k":1}` {
		t.Fatalf("fencedBlock = %q ok=%v", got, ok)
	}
}

func TestStrategyOrder(t *testing.T) {
	want := []string{"direct", "fenced", "brace-span"}
	if len(Strategies) != len(want) {
		t.Fatalf("strategies = %d, want %d", len(Strategies), len(want))
	}
	for i, s := range Strategies {
		if s.Name != want[i] {
			t.Fatalf("strategy[%d] = %s, want %s", i, s.Name, want[i])
		}
	}
}
