package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/dto"
	"studynote-ai/internal/export"
	"studynote-ai/internal/input"
	"studynote-ai/internal/logger"
	"studynote-ai/internal/prompt"
	"studynote-ai/internal/render"

	"go.uber.org/zap"
)

// NotesService runs generation and serves the session's last result to the
// renderer and the exporters.
type NotesService interface {
	Generate(ctx context.Context, sessionID string, in input.Input, level domain.Level) (*dto.NotesResponse, error)
	Current(ctx context.Context, sessionID string) (*dto.NotesResponse, error)
	Text(ctx context.Context, sessionID string) (string, error)
	Export(ctx context.Context, sessionID string, format export.Format) ([]byte, error)
}

type notesService struct {
	generator domain.NotesGenerator
	fetcher   domain.PageFetcher
	slot      NotesSlot
	renderer  *render.Renderer
	exporter  *export.Exporter
	quotes    []string
	now       func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option configures a NotesService.
type Option func(*notesService)

// WithPageFetcher enables fetching the text of URL inputs.
func WithPageFetcher(f domain.PageFetcher) Option {
	return func(s *notesService) { s.fetcher = f }
}

func WithRand(rnd *rand.Rand) Option {
	return func(s *notesService) { s.rnd = rnd }
}

func WithClock(now func() time.Time) Option {
	return func(s *notesService) { s.now = now }
}

func WithQuotes(quotes []string) Option {
	return func(s *notesService) { s.quotes = quotes }
}

// NewNotesService creates a new instance of notesService
func NewNotesService(
	generator domain.NotesGenerator,
	slot NotesSlot,
	renderer *render.Renderer,
	exporter *export.Exporter,
	opts ...Option,
) NotesService {
	s := &notesService{
		generator: generator,
		slot:      slot,
		renderer:  renderer,
		exporter:  exporter,
		quotes:    render.FooterQuotes,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		inFlight:  make(map[string]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Generate sends one generation request for the session. Only one request per
// session runs at a time; the slot is replaced only on success.
func (s *notesService) Generate(ctx context.Context, sessionID string, in input.Input, level domain.Level) (*dto.NotesResponse, error) {
	if in.Empty() {
		return nil, domain.NewInputMissingError()
	}
	if !s.acquire(sessionID) {
		return nil, domain.NewGenerationInProgressError()
	}
	defer s.release(sessionID)

	log := logger.Get().With(zap.String("session_id", sessionID))

	source := prompt.ChooseSource(in.HasImage(), in.HasURL(), in.HasTopic())
	pageText := ""
	if source == domain.SourceURL && s.fetcher != nil {
		text, err := s.fetcher.FetchText(ctx, in.URL)
		if err != nil {
			log.Warn("Failed to fetch page text, continuing with the URL only",
				zap.String("url", in.URL), zap.Error(err))
		} else {
			pageText = text
		}
	}

	req, source := prompt.Build(in, level, pageText)

	start := s.now()
	notes, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Error("Notes generation failed",
			zap.String("provider", s.generator.Name()),
			zap.String("source", string(source)),
			zap.Error(err))
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewGenerationError("Failed to generate notes", err)
	}
	if !notes.HasTitle() {
		return nil, domain.NewGenerationError("Generation service returned notes without a title", nil)
	}

	generated := &domain.GeneratedNotes{
		Notes:     *notes,
		Quote:     s.pickQuote(),
		Level:     level,
		Source:    source,
		CreatedAt: s.now(),
	}
	if err := s.slot.Put(ctx, sessionID, generated); err != nil {
		return nil, err
	}

	log.Info("Generated notes",
		zap.String("provider", s.generator.Name()),
		zap.String("source", string(source)),
		zap.String("level", string(level)),
		zap.Int("sections", len(notes.Notes)),
		zap.Int("key_terms", len(notes.KeyTerms)),
		zap.Int("quiz_items", len(notes.Quiz)),
		zap.Duration("duration", s.now().Sub(start)))

	return s.response(generated), nil
}

func (s *notesService) Current(ctx context.Context, sessionID string) (*dto.NotesResponse, error) {
	generated, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.response(generated), nil
}

// Text returns the clipboard serialization of the current notes.
func (s *notesService) Text(ctx context.Context, sessionID string) (string, error) {
	generated, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return export.PlainText(&generated.Notes), nil
}

func (s *notesService) Export(ctx context.Context, sessionID string, format export.Format) ([]byte, error) {
	generated, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	data, err := s.exporter.Export(ctx, format, generated)
	if err != nil {
		logger.Get().Error("Export failed",
			zap.String("session_id", sessionID),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (s *notesService) load(ctx context.Context, sessionID string) (*domain.GeneratedNotes, error) {
	generated, err := s.slot.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotesNotFound) {
			return nil, domain.NewNotesNotFoundError()
		}
		return nil, err
	}
	return generated, nil
}

func (s *notesService) response(generated *domain.GeneratedNotes) *dto.NotesResponse {
	return &dto.NotesResponse{
		Notes:     generated.Notes,
		HTML:      string(s.renderer.Render(&generated.Notes, generated.Quote)),
		Quote:     generated.Quote,
		Source:    string(generated.Source),
		Level:     string(generated.Level),
		CreatedAt: generated.CreatedAt,
	}
}

func (s *notesService) pickQuote() string {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return render.PickQuote(s.quotes, s.rnd)
}

func (s *notesService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *notesService) release(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}
