package llm

import (
	"strings"

	"github.com/tanmodi/oorja-backend/constants"
)

// maxPromptText caps how much extracted bill text is embedded in the user
// message. Utility bills rarely exceed a few pages; the cap guards against
// pathological PDFs, not normal input.
const maxPromptText = 12000

// BuildPrompt composes the fixed two-part extraction prompt for the given
// bill text. The instructions and field list are constants so replies stay
// comparable across model variants; only the embedded text varies.
func BuildPrompt(text string) Prompt {
	return Prompt{
		System: systemInstruction(),
		User:   userInstruction(text),
	}
}

func systemInstruction() string {
	parts := []string{
		"You are a utility bill parser.",
		"Respond with ONLY a single JSON object and nothing else: no markdown, no code fences, no commentary.",
		"The object must contain exactly the keys listed by the user, in any order.",
		"Copy values verbatim from the bill text; do not invent data.",
		"Never output the string \"null\"; emit JSON null for fields not present on the bill.",
		"Dates must be formatted YYYY-MM-DD when a full date is identifiable.",
		"Amounts must be plain numbers without currency symbols or thousands separators.",
	}
	return strings.Join(parts, " ")
}

func userInstruction(text string) string {
	var b strings.Builder
	b.WriteString("Extract the following fields from the utility bill text below and return them as one JSON object with exactly these keys:\n\n")
	b.WriteString(strings.Join(constants.BillFields, ", "))
	b.WriteString("\n\nBill text:\n")
	if len(text) > maxPromptText {
		b.WriteString(text[:maxPromptText])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
