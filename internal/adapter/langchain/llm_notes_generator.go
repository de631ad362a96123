package langchain

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/prompt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NotesGenerator implements domain.NotesGenerator on top of any langchaingo
// model. The schema is described in the system message and JSON mode is
// requested; the JSON object is then cut out of the raw answer.
type NotesGenerator struct {
	llm    llms.Model
	name   string
	logger *zap.Logger
}

// NewNotesGenerator wraps an existing langchaingo model.
func NewNotesGenerator(llm llms.Model, name string, logger *zap.Logger) (*NotesGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotesGenerator{llm: llm, name: name, logger: logger}, nil
}

// NewOllamaNotesGenerator creates a generator backed by an Ollama server.
// Use a vision model (e.g. llava) when images are expected.
func NewOllamaNotesGenerator(serverURL, model string, timeout time.Duration, logger *zap.Logger) (*NotesGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return NewNotesGenerator(llm, "ollama", logger)
}

// NewOpenAINotesGenerator creates a generator backed by the OpenAI API.
func NewOpenAINotesGenerator(apiKey, model string, logger *zap.Logger) (*NotesGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return NewNotesGenerator(llm, "openai", logger)
}

func (g *NotesGenerator) Name() string {
	return g.name
}

// Messages converts a generation request into langchaingo message content.
func Messages(req domain.GenerationRequest) ([]llms.MessageContent, error) {
	human := llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: req.UserContent}},
	}
	if req.Image != nil {
		data, err := base64.StdEncoding.DecodeString(req.Image.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding inline image: %w", err)
		}
		human.Parts = append(human.Parts, llms.BinaryPart(req.Image.MIMEType, data))
	}

	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction+"\n\n"+prompt.SchemaHint),
		human,
	}, nil
}

// Generate issues exactly one GenerateContent call.
func (g *NotesGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.StudyNotes, error) {
	messages, err := Messages(req)
	if err != nil {
		return nil, domain.NewGenerationError("Failed to build generation request", err)
	}

	g.logger.Info("Generating notes with LLM",
		zap.String("provider", g.name),
		zap.Bool("with_image", req.Image != nil))

	resp, err := g.llm.GenerateContent(ctx, messages, llms.WithJSONMode(), llms.WithTemperature(0.2))
	if err != nil {
		g.logger.Error("LLM call failed", zap.String("provider", g.name), zap.Error(err))
		return nil, domain.NewGenerationError("Failed to reach the generation service", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, domain.NewGenerationError("Generation service returned no content", nil)
	}

	raw := resp.Choices[0].Content
	g.logger.Debug("Raw LLM response received", zap.String("raw_response", raw))

	extracted, ok := ExtractJSONObject(raw)
	if !ok {
		g.logger.Error("Could not find a JSON object in LLM response", zap.String("raw_response", raw))
		return nil, domain.NewGenerationError("Generation service returned malformed JSON",
			fmt.Errorf("no JSON object found in response"))
	}
	return domain.ParseStudyNotes(extracted)
}

// ExtractJSONObject strips a leading <think> block and returns the text
// between the first '{' and the last '}'.
func ExtractJSONObject(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return "", false
	}
	return cleaned[jsonStart : jsonEnd+1], true
}

var _ domain.NotesGenerator = (*NotesGenerator)(nil)
