package responder

import (
	"fmt"
	"strings"
)

// buildPrompt renders the drafting instructions shared by the model-backed
// responders.
func buildPrompt(draft Draft) string {
	var sb strings.Builder
	sb.WriteString("Draft a short, polite customer support reply.\n")
	fmt.Fprintf(&sb, "Customer name: %s\n", draft.CustomerName)
	fmt.Fprintf(&sb, "Original query: %s\n", draft.Query)
	if draft.LatestAnswer != "" {
		fmt.Fprintf(&sb, "Customer's clarifying answer: %s\n", draft.LatestAnswer)
	}
	if len(draft.KBSnippets) > 0 {
		sb.WriteString("Relevant knowledge-base notes:\n")
		for _, snippet := range draft.KBSnippets {
			fmt.Fprintf(&sb, "- %s\n", snippet)
		}
	}
	sb.WriteString("Sign off as Support Team. Reply with the message body only.")
	return sb.String()
}
