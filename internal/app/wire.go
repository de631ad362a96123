// Package app builds the components shared by the API server and the CLI
// from configuration.
package app

import (
	"fmt"
	"math/rand"
	"time"

	"studynote-ai/internal/adapter"
	"studynote-ai/internal/adapter/browser"
	"studynote-ai/internal/adapter/fetcher"
	"studynote-ai/internal/adapter/gemini"
	"studynote-ai/internal/adapter/langchain"
	"studynote-ai/internal/cache"
	"studynote-ai/internal/config"
	"studynote-ai/internal/domain"
	"studynote-ai/internal/export"
	"studynote-ai/internal/render"
	"studynote-ai/internal/service"

	"go.uber.org/zap"
)

// NewNotesGenerator returns the generator selected by generation.provider.
func NewNotesGenerator(cfg *config.Config, logger *zap.Logger) (domain.NotesGenerator, error) {
	switch cfg.Generation.Provider {
	case "gemini":
		return gemini.NewNotesGenerator(cfg.Generation.APIKey, cfg.Generation.Model, logger,
			gemini.WithBaseURL(cfg.Generation.BaseURL),
			gemini.WithTimeout(cfg.Generation.Timeout),
		)
	case "ollama":
		logger.Info("Initializing Ollama notes generator",
			zap.String("server_url", cfg.Ollama.ServerURL), zap.String("model", cfg.Ollama.Model))
		return langchain.NewOllamaNotesGenerator(cfg.Ollama.ServerURL, cfg.Ollama.Model, cfg.Generation.Timeout, logger)
	case "openai":
		logger.Info("Initializing OpenAI notes generator", zap.String("model", cfg.OpenAI.Model))
		return langchain.NewOpenAINotesGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Generation.Provider)
	}
}

// NewCache returns the result-slot store selected by store.driver and a
// func releasing it.
func NewCache(cfg *config.Config, logger *zap.Logger) (domain.Cache, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		return adapter.NewRedisCacheAdapter(client), func() { _ = client.Close() }, nil
	default:
		mem := adapter.NewMemoryCacheAdapter()
		stop := mem.StartSweeper(time.Minute)
		logger.Info("Using in-memory result store")
		return mem, stop, nil
	}
}

// NewCapturer starts the headless browser used for PDF export.
func NewCapturer(cfg *config.Config, logger *zap.Logger) (*browser.Capturer, error) {
	return browser.NewCapturer(logger,
		browser.WithChromePath(cfg.PDF.ChromePath),
		browser.WithDownloadBrowser(cfg.PDF.DownloadBrowser),
		browser.WithNoSandbox(cfg.PDF.NoSandbox),
		browser.WithScale(cfg.PDF.Scale),
		browser.WithViewportWidth(cfg.PDF.ViewportWidth),
		browser.WithTimeout(cfg.PDF.Timeout),
	)
}

// Services groups what the transports need.
type Services struct {
	Generator domain.NotesGenerator
	Cache     domain.Cache
	Renderer  *render.Renderer
	Notes     service.NotesService
	PDFReady  bool

	closers []func()
}

// Close releases the browser and the store.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Build wires generator, store, renderer, exporters and the notes service. A
// browser that fails to start disables PDF export instead of failing startup.
func Build(cfg *config.Config, logger *zap.Logger) (*Services, error) {
	generator, err := NewNotesGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := NewCache(cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &Services{Generator: generator, Cache: store, Renderer: render.NewRenderer()}
	s.closers = append(s.closers, closeStore)

	var pdf *export.PDFExporter
	capturer, err := NewCapturer(cfg, logger)
	if err != nil {
		logger.Warn("PDF export disabled: browser unavailable", zap.Error(err))
	} else {
		s.closers = append(s.closers, func() { _ = capturer.Close() })
		pdf = export.NewPDFExporter(capturer, cfg.PDF.Mode, logger)
		s.PDFReady = true
	}

	opts := []service.Option{service.WithRand(rand.New(rand.NewSource(time.Now().UnixNano())))}
	if cfg.Generation.FetchURL {
		opts = append(opts, service.WithPageFetcher(fetcher.NewReadabilityFetcher(cfg.Generation.FetchTimeout, logger)))
	}

	s.Notes = service.NewNotesService(
		generator,
		service.NewNotesSlot(store, cfg.Store.TTL),
		s.Renderer,
		export.NewExporter(s.Renderer, pdf),
		opts...,
	)
	return s, nil
}
