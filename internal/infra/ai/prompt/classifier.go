package prompt

import (
	"fmt"
	"strings"

	"github.com/mindvault/curator/internal/domain/taxonomy"
)

// BuildClassification composes the grounding prompt: strict JSON directions,
// the full taxonomy (every pillar and topic; misclassification cost outweighs
// prompt size), the display name, and the already length-capped content text.
func BuildClassification(tax *taxonomy.Taxonomy, displayName, text string) string {
	var b strings.Builder

	b.WriteString(`You are a content librarian. Classify the content below into exactly one pillar and one topic from the taxonomy. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Requirements:
- "pillar_id" and "topic_id" must be ids copied verbatim from the taxonomy; the topic must belong to the pillar.
- "confidence" is a number between 0 and 1.
- "tags" is an array of 3 to 7 short lowercase strings.
- "summary" is one or two sentences; "rationale" explains the choice briefly.

Schema (example with empty values):
{
  "pillar_id": "<string>",
  "topic_id": "<string>",
  "summary": "<string>",
  "tags": ["<string>"],
  "confidence": 0.0,
  "rationale": "<string>"
}

Taxonomy:
`)
	for _, p := range tax.Pillars() {
		fmt.Fprintf(&b, "%s %s — %s\n", p.ID, p.NamePrimary, p.NameSecondary)
		for _, tp := range p.Topics {
			fmt.Fprintf(&b, "  %s %s\n", tp.ID, tp.Name)
		}
	}

	fmt.Fprintf(&b, "\nContent name: %s\n", displayName)
	if strings.TrimSpace(text) == "" {
		b.WriteString("Content text: (none — classify from the name alone)\n")
	} else {
		fmt.Fprintf(&b, "Content text:\n%s\n", text)
	}
	return b.String()
}
