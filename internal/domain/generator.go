package domain

import "context"

// InlineImage is an image payload ready for the wire: base64 data tagged with
// the MIME type of the uploaded file.
type InlineImage struct {
	MIMEType string
	Data     string
}

// GenerationRequest is everything a NotesGenerator sends in its single call.
type GenerationRequest struct {
	SystemInstruction string
	UserContent       string
	Image             *InlineImage
}

// NotesGenerator issues exactly one structured-generation call and returns the
// parsed StudyNotes. Implementations return a GENERATION_FAILED DomainError
// when the call fails, the body is not JSON, or the title is missing.
type NotesGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*StudyNotes, error)
	Name() string
}

// PageFetcher returns readable text for a URL.
type PageFetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}
