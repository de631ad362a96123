package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studynote-ai/internal/cache"
	"studynote-ai/internal/domain"
	"studynote-ai/internal/logger"

	"go.uber.org/zap"
)

// ErrNotesNotFound is returned when a session has no generated notes yet.
var ErrNotesNotFound = errors.New("notes not found in slot")

// NotesSlot holds the last successful result of each session.
type NotesSlot interface {
	Put(ctx context.Context, sessionID string, notes *domain.GeneratedNotes) error
	Get(ctx context.Context, sessionID string) (*domain.GeneratedNotes, error)
}

type notesSlotImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewNotesSlot stores results in cache as JSON for ttl.
func NewNotesSlot(cache domain.Cache, ttl time.Duration) NotesSlot {
	if cache == nil {
		logger.Get().Warn("NotesSlot initialized with nil cache. Results will not be kept.")
		return &noopNotesSlot{}
	}
	return &notesSlotImpl{cache: cache, ttl: ttl}
}

func (s *notesSlotImpl) generateKey(sessionID string) string {
	return cache.GenerateCacheKey("session", "notes", sessionID)
}

func (s *notesSlotImpl) Put(ctx context.Context, sessionID string, notes *domain.GeneratedNotes) error {
	if notes == nil {
		return domain.NewInvalidInputError("cannot store nil notes")
	}

	key := s.generateKey(sessionID)
	data, err := json.Marshal(notes)
	if err != nil {
		return domain.NewInternalError("failed to marshal notes", err)
	}

	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to store notes", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to store notes for key %s", key), err)
	}
	logger.Get().Debug("Stored notes", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *notesSlotImpl) Get(ctx context.Context, sessionID string) (*domain.GeneratedNotes, error) {
	key := s.generateKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrNotesNotFound
		}
		logger.Get().Error("Failed to load notes", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to load notes for key %s", key), err)
	}
	if data == "" {
		return nil, ErrNotesNotFound
	}

	var notes domain.GeneratedNotes
	if err := json.Unmarshal([]byte(data), &notes); err != nil {
		logger.Get().Error("Failed to unmarshal notes", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal notes for key %s", key), err)
	}
	return &notes, nil
}

type noopNotesSlot struct{}

func (s *noopNotesSlot) Put(ctx context.Context, sessionID string, notes *domain.GeneratedNotes) error {
	return nil
}

func (s *noopNotesSlot) Get(ctx context.Context, sessionID string) (*domain.GeneratedNotes, error) {
	return nil, ErrNotesNotFound
}
