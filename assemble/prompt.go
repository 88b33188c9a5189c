package assemble

import "strings"

// BuildPrompt concatenates the role preamble, the assembled context and the
// raw user text into the final prompt sent to the inference backend.
func BuildPrompt(preamble, context, rawText string) string {
	var b strings.Builder
	if preamble != "" {
		b.WriteString(preamble)
		b.WriteString("\n\n")
	}
	if context != "" {
		b.WriteString("Context:\n")
		b.WriteString(context)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(rawText)
	return b.String()
}
