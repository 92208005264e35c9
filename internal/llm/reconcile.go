package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tanmodi/oorja-backend/internal/common"
)

// maxDiagnosticLen bounds the raw-reply excerpt carried in parse errors.
const maxDiagnosticLen = 400

var reFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Strategy extracts a candidate JSON document from a raw model reply.
// Strategies are pure and independently testable; Reconcile tries them in
// order and parses the first candidate each one yields.
type Strategy struct {
	Name    string
	Extract func(raw string) (string, bool)
}

// Strategies is the fallback order for recovering JSON from free text:
// the whole reply, then a fenced code block, then the first balanced
// brace span.
var Strategies = []Strategy{
	{Name: "direct", Extract: wholeText},
	{Name: "fenced", Extract: fencedBlock},
	{Name: "brace-span", Extract: braceSpan},
}

// Reconcile recovers a JSON object from a model's reply text. The first
// candidate that parses as valid JSON settles the outcome: an object is
// accepted, anything else (array, scalar) is rejected as invalid data
// format. Later strategies never get to re-read a non-object reply, so an
// array is not mined for the objects it contains.
func Reconcile(model, raw string) (BillFields, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, parseError(model, "empty reply", raw)
	}

	for _, st := range Strategies {
		candidate, ok := st.Extract(trimmed)
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		if m, isMap := v.(map[string]any); isMap {
			return BillFields(m), nil
		}
		return nil, parseError(model, "invalid data format: reply is not a JSON object", raw)
	}

	return nil, parseError(model, "no JSON object recoverable from reply", raw)
}

func parseError(model, msg, raw string) error {
	excerpt := strings.TrimSpace(raw)
	if len(excerpt) > maxDiagnosticLen {
		excerpt = excerpt[:maxDiagnosticLen] + "…"
	}
	return common.NewAppError("PARSE_ERROR",
		fmt.Sprintf("model %s: %s; reply: %q", model, msg, excerpt), common.ErrParse)
}

func wholeText(raw string) (string, bool) {
	return raw, true
}

func fencedBlock(raw string) (string, bool) {
	m := reFence.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	inner := strings.TrimSpace(m[1])
	if inner == "" {
		return "", false
	}
	return inner, true
}

// braceSpan returns the first balanced {...} span, tracking string literals
// and escapes so braces inside values do not end the span early.
func braceSpan(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}
	return "", false
}
