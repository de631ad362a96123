// Package prompt builds the instruction and user content for a notes generation.
package prompt

import (
	"encoding/base64"
	"fmt"
	"strings"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/input"
)

// maxPageTextRunes caps fetched page text appended to a URL prompt.
const maxPageTextRunes = 20000

const systemInstructionTemplate = `You are StudyNote.AI, an expert tutor who turns source material into clear study notes for a %s student.
Respond only with a JSON object that follows the provided schema:
- "title": a short, human-readable name for the subject.
- "notes": sections, each with a "heading" and a list of concise "points".
- "keyTerms": the important vocabulary, each with a "term" and a plain-language "definition".
- "quiz": 5 multiple-choice questions, each with a "question", 4 "options" and the "answer", which must repeat one of the options exactly.
Match vocabulary and depth to the %s level. Do not include any text outside the JSON object.`

// SystemInstruction returns the instruction parameterized by the academic level.
func SystemInstruction(level domain.Level) string {
	label := level.Label()
	return fmt.Sprintf(systemInstructionTemplate, label, label)
}

// ChooseSource applies the precedence image > URL > topic to a presence tuple.
func ChooseSource(hasImage, hasURL, hasTopic bool) domain.SourceKind {
	switch {
	case hasImage:
		return domain.SourceImage
	case hasURL:
		return domain.SourceURL
	case hasTopic:
		return domain.SourceTopic
	default:
		return domain.SourceNone
	}
}

// UserContent writes the user turn for the chosen source. pageText is the
// fetched text of in.URL and may be empty; the service is then trusted to
// know the page itself.
func UserContent(in input.Input, source domain.SourceKind, pageText string) string {
	var b strings.Builder

	switch source {
	case domain.SourceImage:
		b.WriteString("Create study notes from the attached image. Prioritize the content of the image over any other text provided.")
		if in.Topic != "" || in.URL != "" {
			b.WriteString("\nUse the following only as supplementary context:")
			if in.Topic != "" {
				fmt.Fprintf(&b, "\nTopic: %s", in.Topic)
			}
			if in.URL != "" {
				fmt.Fprintf(&b, "\nURL: %s", in.URL)
			}
		}
	case domain.SourceURL:
		fmt.Fprintf(&b, "Create study notes based on the content of this web page: %s\nTreat the content of the page as the primary source.", in.URL)
		if in.Topic != "" {
			fmt.Fprintf(&b, "\nFocus on this topic where relevant: %s", in.Topic)
		}
		if text := truncateRunes(strings.TrimSpace(pageText), maxPageTextRunes); text != "" {
			fmt.Fprintf(&b, "\n\nPage content:\n%s", text)
		}
	case domain.SourceTopic:
		fmt.Fprintf(&b, "Create study notes on the following topic: %s", in.Topic)
	}

	return b.String()
}

// EncodeImage base64-encodes an uploaded image, tagged with its MIME type.
func EncodeImage(img *input.Image) *domain.InlineImage {
	if img == nil || len(img.Data) == 0 {
		return nil
	}
	return &domain.InlineImage{
		MIMEType: img.MIMEType,
		Data:     base64.StdEncoding.EncodeToString(img.Data),
	}
}

// Build assembles the complete generation request.
func Build(in input.Input, level domain.Level, pageText string) (domain.GenerationRequest, domain.SourceKind) {
	source := ChooseSource(in.HasImage(), in.HasURL(), in.HasTopic())
	req := domain.GenerationRequest{
		SystemInstruction: SystemInstruction(level),
		UserContent:       UserContent(in, source, pageText),
	}
	if source == domain.SourceImage {
		req.Image = EncodeImage(in.Image)
	}
	return req, source
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
