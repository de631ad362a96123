package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studynote-ai/internal/domain"
	"studynote-ai/internal/prompt"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// NotesGenerator implements domain.NotesGenerator against the Gemini
// generateContent REST endpoint with a response schema.
type NotesGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	timeout *time.Duration
	logger  *zap.Logger
}

// Option configures a NotesGenerator.
type Option func(*NotesGenerator)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(g *NotesGenerator) {
		if baseURL != "" {
			g.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *NotesGenerator) {
		if client != nil {
			g.client = client
		}
	}
}

// WithTimeout sets the request timeout. Zero disables it. A client passed
// with WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(g *NotesGenerator) {
		g.timeout = &d
	}
}

// NewNotesGenerator creates a new Gemini-backed generator.
func NewNotesGenerator(apiKey, model string, logger *zap.Logger, opts ...Option) (*NotesGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &NotesGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		client:  &http.Client{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.timeout != nil {
		client := *g.client
		client.Timeout = *g.timeout
		g.client = &client
	}
	logger.Info("Initializing Gemini notes generator", zap.String("model", model), zap.String("base_url", g.baseURL))
	return g, nil
}

func (g *NotesGenerator) Name() string {
	return "gemini"
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string                 `json:"responseMimeType"`
	ResponseSchema   map[string]interface{} `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content      *content `json:"content"`
		FinishReason string   `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func buildRequest(req domain.GenerationRequest) generateRequest {
	parts := []part{{Text: req.UserContent}}
	if req.Image != nil {
		parts = append(parts, part{InlineData: &inlineData{MIMEType: req.Image.MIMEType, Data: req.Image.Data}})
	}

	return generateRequest{
		Contents:          []content{{Role: "user", Parts: parts}},
		SystemInstruction: &content{Parts: []part{{Text: req.SystemInstruction}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   prompt.StudyNotesSchema(),
		},
	}
}

// Generate issues exactly one generateContent call. Every failure comes back
// as a GENERATION_FAILED domain error.
func (g *NotesGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.StudyNotes, error) {
	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, domain.NewGenerationError("Failed to encode generation request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewGenerationError("Failed to create generation request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Error("Gemini request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, domain.NewGenerationError("Failed to reach the generation service", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewGenerationError("Failed to read generation response", err)
	}

	g.logger.Debug("Gemini response received",
		zap.Int("status", httpResp.StatusCode),
		zap.Int("bytes", len(respBody)),
		zap.Duration("elapsed", time.Since(start)))

	var apiResp generateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, domain.NewGenerationError("Generation service returned an error",
				fmt.Errorf("status %d: %s", httpResp.StatusCode, truncate(string(respBody), 200)))
		}
		return nil, domain.NewGenerationError("Generation service returned malformed JSON", err)
	}
	if apiResp.Error != nil {
		return nil, domain.NewGenerationError("Generation service returned an error",
			fmt.Errorf("%s (%d): %s", apiResp.Error.Status, apiResp.Error.Code, apiResp.Error.Message))
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, domain.NewGenerationError("Generation service returned an error",
			fmt.Errorf("status %d", httpResp.StatusCode))
	}

	text, err := responseText(apiResp)
	if err != nil {
		return nil, domain.NewGenerationError("Generation service returned no content", err)
	}

	return domain.ParseStudyNotes(text)
}

func responseText(resp generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidate (finish reason %q)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, p := range candidate.Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Static assertion to ensure NotesGenerator implements domain.NotesGenerator
var _ domain.NotesGenerator = (*NotesGenerator)(nil)
