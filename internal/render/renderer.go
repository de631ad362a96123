// Package render turns StudyNotes into the HTML fragment shown on the page
// and captured for PDF export.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"studynote-ai/internal/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

const fragmentTemplate = `<article class="notes-output" id="notes-output">
<h1 class="notes-title">{{.Notes.Title}}</h1>
{{- range .Notes.Notes}}
<section class="note-section">
<h2>{{.Heading}}</h2>
<ul>
{{- range .Points}}
<li>{{inline .}}</li>
{{- end}}
</ul>
</section>
{{- end}}
<section class="key-terms">
<h2>Key Terms</h2>
<ul class="glossary">
{{- range .Notes.KeyTerms}}
<li class="key-term"><strong>{{.Term}}</strong>: {{.Definition}}</li>
{{- end}}
</ul>
</section>
<section class="quiz">
<h2>Quiz</h2>
{{- range $i, $q := .Notes.Quiz}}
<div class="quiz-item">
<p class="quiz-question">{{inc $i}}. {{$q.Question}}</p>
<ol class="quiz-options" type="A">
{{- range $q.Options}}
<li>{{.}}</li>
{{- end}}
</ol>
<p class="quiz-answer">Answer: {{$q.Answer}}</p>
</div>
{{- end}}
</section>
<footer class="notes-footer">
<p class="footer-quote">{{.Quote}}</p>
<p class="footer-tagline">{{.Tagline}}</p>
</footer>
</article>`

const errorTemplate = `<div class="notes-error" role="alert">
<h2>Could not generate notes</h2>
<p>{{.}}</p>
</div>`

// Renderer renders StudyNotes fragments. It is safe for concurrent use.
type Renderer struct {
	fragment *template.Template
	errBlock *template.Template
	md       goldmark.Markdown
}

func NewRenderer() *Renderer {
	r := &Renderer{md: newInlineMarkdown()}
	r.fragment = template.Must(template.New("fragment").Funcs(template.FuncMap{
		"inc":    func(i int) int { return i + 1 },
		"inline": r.inline,
	}).Parse(fragmentTemplate))
	r.errBlock = template.Must(template.New("error").Parse(errorTemplate))
	return r
}

// Render returns the notes fragment. Notes without a title render as an
// error block rather than failing.
func (r *Renderer) Render(notes *domain.StudyNotes, quote string) template.HTML {
	if !notes.HasTitle() {
		return r.ErrorFragment("The response did not contain any notes. Please try again.")
	}

	var buf bytes.Buffer
	err := r.fragment.Execute(&buf, struct {
		Notes   *domain.StudyNotes
		Quote   string
		Tagline string
	}{notes, quote, Tagline})
	if err != nil {
		return r.ErrorFragment(fmt.Sprintf("Failed to display the notes: %v", err))
	}
	return template.HTML(buf.String())
}

// ErrorFragment renders an explicit error block with message escaped.
func (r *Renderer) ErrorFragment(message string) template.HTML {
	var buf bytes.Buffer
	if err := r.errBlock.Execute(&buf, message); err != nil {
		return template.HTML(`<div class="notes-error" role="alert"><h2>Could not generate notes</h2></div>`)
	}
	return template.HTML(buf.String())
}

// newInlineMarkdown parses a point as a single paragraph. Leading "#" or
// "1945." stay text, and angle brackets are text rather than raw HTML.
func newInlineMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithParser(parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)))
}

// inline renders inline markdown (emphasis, code, links) in a point.
func (r *Renderer) inline(text string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}
