package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"studynote-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotes() *domain.StudyNotes {
	return &domain.StudyNotes{
		Title: "Cell Biology",
		Notes: []domain.NoteSection{
			{Heading: "Organelles", Points: []string{"a", "b"}},
		},
		KeyTerms: []domain.KeyTerm{
			{Term: "Nucleus", Definition: "Holds the DNA"},
		},
		Quiz: []domain.QuizItem{
			{Question: "What holds the DNA?", Options: []string{"Nucleus", "Ribosome"}, Answer: "Nucleus"},
			{Question: "Powerhouse of the cell?", Options: []string{"Mitochondria"}, Answer: "Mitochondria"},
		},
	}
}

func TestPlainText_Layout(t *testing.T) {
	lines := strings.Split(PlainText(sampleNotes()), "\n")

	assert.Equal(t, "Cell Biology", lines[0])

	idx := indexOf(lines, "## Organelles")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "- a", lines[idx+1])
	assert.Equal(t, "- b", lines[idx+2])

	assert.Contains(t, lines, "## Key Terms")
	assert.Contains(t, lines, "Nucleus: Holds the DNA")
	assert.Contains(t, lines, "## Quiz")
	assert.Contains(t, lines, "1. What holds the DNA?")
	assert.Contains(t, lines, "   A. Nucleus")
	assert.Contains(t, lines, "   B. Ribosome")
	assert.Contains(t, lines, "   Answer: Nucleus")
	assert.Contains(t, lines, "2. Powerhouse of the cell?")
}

func TestPlainText_TitleOnly(t *testing.T) {
	assert.Equal(t, "Only\n", PlainText(&domain.StudyNotes{Title: "Only"}))
	assert.Equal(t, "", PlainText(nil))
}

func TestTextFile_ExtendsPlainText(t *testing.T) {
	notes := sampleNotes()
	clip := PlainText(notes)
	file := TextFile(notes, "Keep going.", "Generated with StudyNote.AI")

	require.True(t, strings.HasPrefix(file, clip))
	tail := strings.TrimPrefix(file, clip)
	assert.Contains(t, tail, "Keep going.")
	assert.True(t, strings.HasSuffix(tail, "Generated with StudyNote.AI\n"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "StudyNote.AI-Notes.pdf", f.Filename())
	assert.Equal(t, "StudyNote.AI-Notes.docx", FormatDocx.Filename())
	assert.Equal(t, "StudyNote.AI-Notes.txt", FormatText.Filename())
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("rtf")
	assert.True(t, domain.HasCode(err, domain.CodeUnsupportedFormat))
}

func TestDocxExporter_Export(t *testing.T) {
	data, err := NewDocxExporter().Export(sampleNotes(), "Keep going.", "Generated with StudyNote.AI")
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "PK", string(data[:2]))

	_, err = NewDocxExporter().Export(nil, "", "")
	assert.True(t, domain.HasCode(err, domain.CodeNotesNotFound))
}

func TestDocxExporter_Export_UsesNamedParagraphStyles(t *testing.T) {
	data, err := NewDocxExporter().Export(sampleNotes(), "Keep going.", "Generated with StudyNote.AI")
	require.NoError(t, err)

	styles := readZipEntry(t, data, "word/styles.xml")
	for _, id := range []string{styleTitle, styleHeading, styleBullet, styleBody, styleAnswer, styleFooter} {
		assert.Contains(t, styles, `w:styleId="`+id+`"`)
	}

	document := readZipEntry(t, data, "word/document.xml")
	assert.Equal(t, 2, strings.Count(document, `w:pStyle w:val="`+styleFooter+`"`))
	assert.Equal(t, 1, strings.Count(document, `w:pStyle w:val="`+styleTitle+`"`))
	assert.Contains(t, document, "Generated with StudyNote.AI")
	assert.Less(t, strings.Index(document, "Keep going."), strings.Index(document, "Generated with StudyNote.AI"))
}

func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("%s not found in archive", name)
	return ""
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}
