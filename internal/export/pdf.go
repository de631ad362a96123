package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"

	"studynote-ai/internal/render"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Capturer turns a standalone HTML document into an image or a PDF.
type Capturer interface {
	// Screenshot returns a PNG of the capture element.
	Screenshot(ctx context.Context, document string) ([]byte, error)
	// PrintToPDF returns the browser's own PDF rendering.
	PrintToPDF(ctx context.Context, document string) ([]byte, error)
}

// PDF capture modes.
const (
	ModeScreenshot = "screenshot"
	ModePrint      = "print"
)

const captureImage = "capture"

// PDFExporter renders a View through a Capturer with the quiz answers hidden.
type PDFExporter struct {
	capturer Capturer
	mode     string
	logger   *zap.Logger
}

func NewPDFExporter(capturer Capturer, mode string, logger *zap.Logger) *PDFExporter {
	if mode == "" {
		mode = ModeScreenshot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExporter{capturer: capturer, mode: mode, logger: logger}
}

// Export captures view and returns the PDF bytes. Answers are visible again
// when Export returns, whatever the outcome.
func (e *PDFExporter) Export(ctx context.Context, view *render.View) ([]byte, error) {
	if e.capturer == nil {
		return nil, errors.New("no capturer configured")
	}

	restore := view.HideAnswers()
	defer restore()

	document, err := view.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to build capture document: %w", err)
	}

	if e.mode == ModePrint {
		return e.capturer.PrintToPDF(ctx, document)
	}

	shot, err := e.capturer.Screenshot(ctx, document)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("captured notes", zap.Int("png_bytes", len(shot)))
	return ImagePDF(shot)
}

// ImagePDF lays one tall PNG across as many A4 pages as it needs, scaled to
// page width.
func ImagePDF(pngData []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}
	if format != "png" {
		return nil, fmt.Errorf("unexpected capture format: %s", format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, errors.New("capture is empty")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	imgH := float64(cfg.Height) * pageW / float64(cfg.Width)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(captureImage, opts, bytes.NewReader(pngData))

	for _, offset := range Paginate(imgH, pageH) {
		pdf.AddPage()
		pdf.ImageOptions(captureImage, 0, offset, pageW, imgH, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Paginate returns the vertical offset of the image on each page. The first
// page shows the top of the image at 0; every following page shifts it up by
// one more page height until the bottom edge has been shown.
func Paginate(imageHeight, pageHeight float64) []float64 {
	offsets := []float64{0}
	if pageHeight <= 0 {
		return offsets
	}
	for left := imageHeight - pageHeight; left > 0; left -= pageHeight {
		offsets = append(offsets, left-imageHeight)
	}
	return offsets
}
