package service

import (
	"context"

	"studynote-ai/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockNotesGenerator ---
type MockNotesGenerator struct {
	mock.Mock
}

func (m *MockNotesGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.StudyNotes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudyNotes), args.Error(1)
}

func (m *MockNotesGenerator) Name() string {
	return "mock"
}

// --- MockPageFetcher ---
type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}
