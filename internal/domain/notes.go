package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// StudyNotes is the structured object returned by the generation service.
// Every field is required by the response schema; nothing here enforces it.
type StudyNotes struct {
	Title    string        `json:"title"`
	Notes    []NoteSection `json:"notes"`
	KeyTerms []KeyTerm     `json:"keyTerms"`
	Quiz     []QuizItem    `json:"quiz"`
}

// NoteSection is one heading with its bullet points.
type NoteSection struct {
	Heading string   `json:"heading"`
	Points  []string `json:"points"`
}

type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// QuizItem is a multiple-choice question. Answer is expected to equal one of
// Options verbatim.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// HasTitle reports whether the notes carry the one field the renderer and
// the generation client insist on.
func (n *StudyNotes) HasTitle() bool {
	return n != nil && strings.TrimSpace(n.Title) != ""
}

// ParseStudyNotes decodes the model's JSON text and requires a title.
func ParseStudyNotes(text string) (*StudyNotes, error) {
	var notes StudyNotes
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &notes); err != nil {
		return nil, NewGenerationError("Generation service returned malformed JSON", err)
	}
	if !notes.HasTitle() {
		return nil, NewGenerationError("Generation service returned notes without a title", nil)
	}
	return &notes, nil
}

// GeneratedNotes is the content of a session's "last result" slot.
type GeneratedNotes struct {
	Notes     StudyNotes `json:"notes"`
	Quote     string     `json:"quote"`
	Level     Level      `json:"level"`
	Source    SourceKind `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}

// SourceKind names which input drove the generation.
type SourceKind string

const (
	SourceImage SourceKind = "image"
	SourceURL   SourceKind = "url"
	SourceTopic SourceKind = "topic"
	SourceNone  SourceKind = ""
)
