package langchain

import (
	"context"
	"errors"
	"testing"

	"studynote-ai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// MockLLM is a mock type for the llms.Model interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func contentResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func TestNewNotesGenerator(t *testing.T) {
	_, err := NewNotesGenerator(nil, "ollama", nil)
	assert.Error(t, err)

	g, err := NewNotesGenerator(&MockLLM{}, "ollama", nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", g.Name())

	_, err = NewOllamaNotesGenerator("", "llava", 0, nil)
	assert.Error(t, err)
	_, err = NewOpenAINotesGenerator("", "gpt-4o-mini", nil)
	assert.Error(t, err)
}

func TestMessages(t *testing.T) {
	messages, err := Messages(domain.GenerationRequest{
		SystemInstruction: "system",
		UserContent:       "user",
		Image:             &domain.InlineImage{MIMEType: "image/jpeg", Data: "cGl4ZWxz"},
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, llms.ChatMessageTypeSystem, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[1].Role)
	require.Len(t, messages[1].Parts, 2)

	binary, ok := messages[1].Parts[1].(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", binary.MIMEType)
	assert.Equal(t, []byte("pixels"), binary.Data)

	_, err = Messages(domain.GenerationRequest{Image: &domain.InlineImage{MIMEType: "image/png", Data: "%%%"}})
	assert.Error(t, err)
}

func TestNotesGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	req := domain.GenerationRequest{SystemInstruction: "system", UserContent: "Create study notes on the following topic: Cells"}

	t.Run("success with think block", func(t *testing.T) {
		llm := &MockLLM{}
		llm.On("GenerateContent", ctx, mock.Anything).
			Return(contentResponse("<think>plan</think>\n```json\n{\"title\":\"Cells\",\"notes\":[],\"keyTerms\":[],\"quiz\":[]}\n```"), nil).Once()
		g, _ := NewNotesGenerator(llm, "ollama", nil)

		notes, err := g.Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Cells", notes.Title)
		llm.AssertExpectations(t)
	})

	t.Run("call fails", func(t *testing.T) {
		llm := &MockLLM{}
		llm.On("GenerateContent", ctx, mock.Anything).Return(nil, errors.New("connection refused")).Once()
		g, _ := NewNotesGenerator(llm, "ollama", nil)

		_, err := g.Generate(ctx, req)
		assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed))
		llm.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("no json", func(t *testing.T) {
		llm := &MockLLM{}
		llm.On("GenerateContent", ctx, mock.Anything).Return(contentResponse("I cannot help with that."), nil).Once()
		g, _ := NewNotesGenerator(llm, "openai", nil)

		_, err := g.Generate(ctx, req)
		assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed))
		assert.Contains(t, err.Error(), "malformed JSON")
	})

	t.Run("missing title", func(t *testing.T) {
		llm := &MockLLM{}
		llm.On("GenerateContent", ctx, mock.Anything).Return(contentResponse(`{"notes":[]}`), nil).Once()
		g, _ := NewNotesGenerator(llm, "openai", nil)

		_, err := g.Generate(ctx, req)
		assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed))
		assert.Contains(t, err.Error(), "without a title")
	})

	t.Run("empty choices", func(t *testing.T) {
		llm := &MockLLM{}
		llm.On("GenerateContent", ctx, mock.Anything).Return(&llms.ContentResponse{}, nil).Once()
		g, _ := NewNotesGenerator(llm, "openai", nil)

		_, err := g.Generate(ctx, req)
		assert.True(t, domain.HasCode(err, domain.CodeGenerationFailed))
	})
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject(`noise {"a":{"b":1}} trailing`)
	assert.True(t, ok)
	assert.Equal(t, `{"a":{"b":1}}`, got)

	_, ok = ExtractJSONObject("} backwards {")
	assert.False(t, ok)

	_, ok = ExtractJSONObject("")
	assert.False(t, ok)
}
