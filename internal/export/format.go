// Package export serializes the current StudyNotes into clipboard text,
// plain-text, document and PDF downloads.
package export

import (
	"strings"

	"studynote-ai/internal/domain"
)

// Format is a downloadable export format.
type Format string

const (
	FormatText Format = "txt"
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

const filenameBase = "StudyNote.AI-Notes"

// ParseFormat resolves the route parameter of an export request.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatDocx, FormatPDF:
		return f, nil
	default:
		return "", domain.NewUnsupportedFormatError(s)
	}
}

// Filename is the fixed download name for the format.
func (f Format) Filename() string {
	return filenameBase + "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}
