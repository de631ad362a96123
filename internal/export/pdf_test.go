package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	view       *render.View
	shot       []byte
	err        error
	documents  []string
	hiddenSeen []bool
}

func (f *fakeCapturer) Screenshot(_ context.Context, document string) ([]byte, error) {
	f.record(document)
	return f.shot, f.err
}

func (f *fakeCapturer) PrintToPDF(_ context.Context, document string) ([]byte, error) {
	f.record(document)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 printed"), nil
}

func (f *fakeCapturer) record(document string) {
	f.documents = append(f.documents, document)
	if f.view != nil {
		f.hiddenSeen = append(f.hiddenSeen, f.view.AnswersHidden())
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		imgH    float64
		pageH   float64
		offsets []float64
	}{
		{"shorter than a page", 100, 297, []float64{0}},
		{"exactly one page", 297, 297, []float64{0}},
		{"exactly two pages", 594, 297, []float64{0, -297}},
		{"two and a bit pages", 700, 297, []float64{0, -297, -594}},
		{"zero page height", 700, 0, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(tt.imgH, tt.pageH)
			require.Len(t, got, len(tt.offsets))
			for i := range got {
				assert.InDelta(t, tt.offsets[i], got[i], 1e-9)
			}
		})
	}
}

func TestImagePDF(t *testing.T) {
	data, err := ImagePDF(testPNG(t, 40, 200))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = ImagePDF([]byte("not an image"))
	assert.Error(t, err)
}

func TestPDFExporter_HidesAndRestoresAnswers(t *testing.T) {
	view := render.NewView(render.NewRenderer().Render(sampleNotes(), ""))
	capturer := &fakeCapturer{view: view, shot: testPNG(t, 30, 60)}

	data, err := NewPDFExporter(capturer, ModeScreenshot, nil).Export(context.Background(), view)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	require.Len(t, capturer.hiddenSeen, 1)
	assert.True(t, capturer.hiddenSeen[0])
	assert.Contains(t, capturer.documents[0], `class="`+render.HideAnswersClass+`"`)
	assert.False(t, view.AnswersHidden())
}

func TestPDFExporter_RestoresAnswersOnFailure(t *testing.T) {
	view := render.NewView(render.NewRenderer().Render(sampleNotes(), ""))
	capturer := &fakeCapturer{view: view, err: errors.New("browser crashed")}

	_, err := NewPDFExporter(capturer, ModeScreenshot, nil).Export(context.Background(), view)
	require.Error(t, err)
	assert.True(t, capturer.hiddenSeen[0])
	assert.False(t, view.AnswersHidden())
}

func TestPDFExporter_PrintMode(t *testing.T) {
	view := render.NewView(render.NewRenderer().Render(sampleNotes(), ""))
	capturer := &fakeCapturer{view: view}

	data, err := NewPDFExporter(capturer, ModePrint, nil).Export(context.Background(), view)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 printed", string(data))
	assert.False(t, view.AnswersHidden())
}

func TestExporter_Export(t *testing.T) {
	generated := &domain.GeneratedNotes{Notes: *sampleNotes(), Quote: "Keep going."}
	capturer := &fakeCapturer{shot: testPNG(t, 30, 60)}
	exporter := NewExporter(render.NewRenderer(), NewPDFExporter(capturer, ModeScreenshot, nil))
	ctx := context.Background()

	txt, err := exporter.Export(ctx, FormatText, generated)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(txt, []byte(PlainText(&generated.Notes))))
	assert.Contains(t, string(txt), render.Tagline)

	doc, err := exporter.Export(ctx, FormatDocx, generated)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(doc[:2]))

	pdf, err := exporter.Export(ctx, FormatPDF, generated)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	_, err = exporter.Export(ctx, FormatText, nil)
	assert.True(t, domain.HasCode(err, domain.CodeNotesNotFound))

	capturer.err = errors.New("boom")
	capturer.shot = nil
	_, err = exporter.Export(ctx, FormatPDF, generated)
	assert.True(t, domain.HasCode(err, domain.CodeExportFailed))
}
