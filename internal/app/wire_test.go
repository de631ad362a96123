package app

import (
	"context"
	"testing"
	"time"

	"studynote-ai/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Generation: config.GenerationConfig{
			Provider: "gemini",
			APIKey:   "key",
			Model:    "gemini-2.0-flash",
			Timeout:  time.Second,
		},
		Ollama: config.OllamaConfig{ServerURL: "http://localhost:11434", Model: "llava"},
		Store:  config.StoreConfig{Driver: "memory", TTL: time.Hour},
	}
}

func TestNewNotesGenerator(t *testing.T) {
	cfg := testConfig()

	gen, err := NewNotesGenerator(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gemini", gen.Name())

	cfg.Generation.APIKey = ""
	_, err = NewNotesGenerator(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.Generation.Provider = "ollama"
	gen, err = NewNotesGenerator(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ollama", gen.Name())

	cfg.Generation.Provider = "openai"
	_, err = NewNotesGenerator(cfg, zap.NewNop())
	assert.Error(t, err, "openai without a key")

	cfg.Generation.Provider = "bard"
	_, err = NewNotesGenerator(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewCache_Memory(t *testing.T) {
	store, closeStore, err := NewCache(testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer closeStore()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
	assert.NoError(t, store.Ping(ctx))
}
