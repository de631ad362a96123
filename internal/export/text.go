package export

import (
	"fmt"
	"strings"

	"studynote-ai/internal/domain"
)

// PlainText is the clipboard serialization of notes.
func PlainText(notes *domain.StudyNotes) string {
	if notes == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(notes.Title)
	b.WriteString("\n")

	for _, section := range notes.Notes {
		fmt.Fprintf(&b, "\n## %s\n", section.Heading)
		for _, point := range section.Points {
			fmt.Fprintf(&b, "- %s\n", point)
		}
	}

	if len(notes.KeyTerms) > 0 {
		b.WriteString("\n## Key Terms\n")
		for _, kt := range notes.KeyTerms {
			fmt.Fprintf(&b, "%s: %s\n", kt.Term, kt.Definition)
		}
	}

	if len(notes.Quiz) > 0 {
		b.WriteString("\n## Quiz\n")
		for i, q := range notes.Quiz {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
			for j, opt := range q.Options {
				fmt.Fprintf(&b, "   %s. %s\n", optionLabel(j), opt)
			}
			fmt.Fprintf(&b, "   Answer: %s\n", q.Answer)
		}
	}
	return b.String()
}

// TextFile is PlainText followed by the footer quote and tagline.
func TextFile(notes *domain.StudyNotes, quote, tagline string) string {
	var b strings.Builder
	b.WriteString(PlainText(notes))
	b.WriteString("\n---\n")
	if quote != "" {
		b.WriteString(quote)
		b.WriteString("\n")
	}
	b.WriteString(tagline)
	b.WriteString("\n")
	return b.String()
}

// optionLabel maps 0, 1, 2 to A, B, C. Past Z it falls back to numbers.
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%d", i+1)
}
