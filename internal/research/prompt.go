package research

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the task given to the research agent. outline is the
// document's current heading outline and may be empty.
func BuildPrompt(gap Gap, outline []string, runID string) string {
	var b strings.Builder

	b.WriteString("You are a knowledge-researcher agent for the Panopticon repository.\n\n")
	fmt.Fprintf(&b, "**Run ID:** %s\n", runID)
	fmt.Fprintf(&b, "**Gap ID:** %s\n", gap.ID)
	fmt.Fprintf(&b, "**Topic:** %s\n", gap.Topic)
	fmt.Fprintf(&b, "**Document:** %s\n", gap.Document)
	fmt.Fprintf(&b, "**Description:** %s\n\n", gap.Description)

	if len(outline) > 0 {
		b.WriteString("**Current document outline:**\n")
		for _, section := range outline {
			fmt.Fprintf(&b, "- %s\n", section)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Your Task:**\nResearch and document **%s** for %s.\n\n", gap.Topic, gap.Document)
	b.WriteString(`**Research Sources:**
- Search the server codebase for the implementation.
- Check deployment manifests and live infrastructure where available.
- Read related documents for consistent patterns.

**Documentation update:**
`)
	fmt.Fprintf(&b, "- Read %s to understand its existing structure.\n", gap.Document)
	fmt.Fprintf(&b, "- Add a new section or expand an existing one for %s.\n", gap.Topic)
	b.WriteString(`- Follow the existing format and tone.
- Include inline citations (e.g. "defined in server/api/main.go:123").
- Add a confidence marker: **Confidence:** HIGH (verified from code), MEDIUM (from docs) or LOW (needs verification).
- Provide concrete examples where applicable.

**Success Criteria:**
`)
	fmt.Fprintf(&b, "- %s is documented in %s, edited in place.\n", gap.Topic, gap.Document)
	b.WriteString(`- Factual claims carry citations.
- A confidence marker is present.

**Output:**
Explain what you researched and what you documented. The document must already be updated before you finish.
`)
	return b.String()
}
