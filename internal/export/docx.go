package export

import (
	"bytes"
	"fmt"

	"studynote-ai/internal/domain"

	"github.com/fumiama/go-docx"
)

const (
	footerColor = "808080"
	accentColor = "1F4E79"
)

// DocxExporter builds a .docx document mirroring the rendered notes.
type DocxExporter struct{}

func NewDocxExporter() *DocxExporter {
	return &DocxExporter{}
}

// Export serializes notes. quote and tagline go in NotesFooter paragraphs,
// which are centered, muted and italic.
func (e *DocxExporter) Export(notes *domain.StudyNotes, quote, tagline string) ([]byte, error) {
	if notes == nil {
		return nil, domain.NewNotesNotFoundError()
	}

	tmpl, err := notesTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load docx template: %w", err)
	}
	doc := docx.New().UseTemplate(templateName, docx.DefaultTemplateFilesList, tmpl)

	doc.AddParagraph().Style(styleTitle).AddText(notes.Title)

	for _, section := range notes.Notes {
		doc.AddParagraph().Style(styleHeading).AddText(section.Heading)
		for _, point := range section.Points {
			doc.AddParagraph().Style(styleBullet).AddText("• " + point)
		}
	}

	if len(notes.KeyTerms) > 0 {
		doc.AddParagraph().Style(styleHeading).AddText("Key Terms")
		for _, kt := range notes.KeyTerms {
			p := doc.AddParagraph().Style(styleBody)
			p.AddText(kt.Term + ": ").Bold()
			p.AddText(kt.Definition)
		}
	}

	if len(notes.Quiz) > 0 {
		doc.AddParagraph().Style(styleHeading).AddText("Quiz")
		for i, q := range notes.Quiz {
			doc.AddParagraph().Style(styleBody).AddText(fmt.Sprintf("%d. %s", i+1, q.Question)).Bold()
			for j, opt := range q.Options {
				doc.AddParagraph().Style(styleBullet).AddText(fmt.Sprintf("%s. %s", optionLabel(j), opt))
			}
			doc.AddParagraph().Style(styleAnswer).AddText("Answer: " + q.Answer)
		}
	}

	if quote != "" {
		doc.AddParagraph().Style(styleFooter).AddText(quote)
	}
	doc.AddParagraph().Style(styleFooter).AddText(tagline)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write docx: %w", err)
	}
	return buf.Bytes(), nil
}
