package render

import (
	"html/template"
	"strings"
	"sync"
)

// HideAnswersClass hides every .quiz-answer inside the fragment.
const HideAnswersClass = "hide-answers"

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>StudyNote.AI Notes</title>
<style>
body { margin: 0; background: #ffffff; color: #1f2937; font-family: "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
#capture { padding: 32px 40px; }
.notes-title { font-size: 28px; margin: 0 0 16px; }
.note-section h2, .key-terms h2, .quiz h2 { font-size: 20px; border-bottom: 1px solid #e5e7eb; padding-bottom: 4px; }
.quiz-item { margin-bottom: 12px; }
.quiz-answer { color: #047857; font-weight: 600; }
.` + HideAnswersClass + ` .quiz-answer { display: none; }
.notes-footer { margin-top: 24px; text-align: center; color: #6b7280; font-style: italic; }
</style>
</head>
<body>
<div id="capture" class="{{.Class}}">
{{.Fragment}}
</div>
</body>
</html>`

var documentTmpl = template.Must(template.New("document").Parse(documentTemplate))

// CaptureSelector selects the element a screenshot is taken of.
const CaptureSelector = "#capture"

// View is a standalone HTML document around a rendered fragment, used as the
// capture target for PDF export.
type View struct {
	mu       sync.Mutex
	fragment template.HTML
	hidden   bool
}

func NewView(fragment template.HTML) *View {
	return &View{fragment: fragment}
}

// HideAnswers hides the quiz answers and returns the func restoring them.
// Callers defer the restore so answers come back on every path.
func (v *View) HideAnswers() (restore func()) {
	v.mu.Lock()
	v.hidden = true
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.hidden = false
			v.mu.Unlock()
		})
	}
}

func (v *View) AnswersHidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden
}

// Document renders the full HTML document in its current state.
func (v *View) Document() (string, error) {
	v.mu.Lock()
	data := struct {
		Class    string
		Fragment template.HTML
	}{Fragment: v.fragment}
	if v.hidden {
		data.Class = HideAnswersClass
	}
	v.mu.Unlock()

	var b strings.Builder
	if err := documentTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
