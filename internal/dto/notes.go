package dto

import (
	"time"

	"studynote-ai/internal/domain"
)

// NotesResponse is returned by POST /api/notes and GET /api/notes.
// @Description Generated study notes with their rendered fragment
type NotesResponse struct {
	Notes     domain.StudyNotes `json:"notes"`
	HTML      string            `json:"html"`
	Quote     string            `json:"quote"`
	Source    string            `json:"source"`
	Level     string            `json:"level"`
	CreatedAt time.Time         `json:"created_at"`
}

// LevelResponse is one entry of GET /api/levels.
type LevelResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Provider  string `json:"provider"`
	Store     string `json:"store"`
	PDFReady  bool   `json:"pdf_ready"`
	StoreOK   bool   `json:"store_ok"`
	StoreErr  string `json:"store_error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
