package export

import (
	"context"
	"errors"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/render"
)

// Exporter produces every download format from a session's notes.
type Exporter struct {
	docx     *DocxExporter
	pdf      *PDFExporter
	renderer *render.Renderer
}

func NewExporter(renderer *render.Renderer, pdf *PDFExporter) *Exporter {
	return &Exporter{docx: NewDocxExporter(), pdf: pdf, renderer: renderer}
}

// Export serializes generated notes in format. Failures come back as
// EXPORT_FAILED domain errors.
func (e *Exporter) Export(ctx context.Context, format Format, generated *domain.GeneratedNotes) ([]byte, error) {
	if generated == nil {
		return nil, domain.NewNotesNotFoundError()
	}
	notes := &generated.Notes

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatText:
		data = []byte(TextFile(notes, generated.Quote, render.Tagline))
	case FormatDocx:
		data, err = e.docx.Export(notes, generated.Quote, render.Tagline)
	case FormatPDF:
		if e.pdf == nil {
			return nil, domain.NewExportError(string(format), errors.New("pdf export is not configured"))
		}
		view := render.NewView(e.renderer.Render(notes, generated.Quote))
		data, err = e.pdf.Export(ctx, view)
	default:
		return nil, domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return nil, domain.NewExportError(string(format), err)
	}
	return data, nil
}
