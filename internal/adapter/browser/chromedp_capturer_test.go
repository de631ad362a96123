package browser

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/export"
	"studynote-ai/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func newTestCapturer(t *testing.T) *Capturer {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
	c, err := NewCapturer(zap.NewNop(), WithNoSandbox(true))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testView() *render.View {
	notes := &domain.StudyNotes{
		Title: "Gravity",
		Notes: []domain.NoteSection{{Heading: "Basics", Points: []string{"Mass attracts mass"}}},
		Quiz:  []domain.QuizItem{{Question: "Who?", Options: []string{"Newton"}, Answer: "Newton"}},
	}
	return render.NewView(render.NewRenderer().Render(notes, "quote"))
}

func TestCapturer_ScreenshotExport(t *testing.T) {
	c := newTestCapturer(t)

	data, err := export.NewPDFExporter(c, export.ModeScreenshot, nil).Export(context.Background(), testView())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCapturer_PrintToPDF(t *testing.T) {
	c := newTestCapturer(t)

	doc, err := testView().Document()
	require.NoError(t, err)
	data, err := c.PrintToPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCapturer_Closed(t *testing.T) {
	c := newTestCapturer(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Screenshot(context.Background(), "<html></html>")
	assert.ErrorIs(t, err, ErrClosed)
}
