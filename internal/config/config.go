package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Generation GenerationConfig
	Ollama     OllamaConfig
	OpenAI     OpenAIConfig
	Store      StoreConfig
	Redis      RedisConfig
	PDF        PDFConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// LoggerConfig selects the zap encoder and level.
type LoggerConfig struct {
	Env   string
	Level string
}

// GenerationConfig configures the structured-notes generation call.
type GenerationConfig struct {
	Provider      string // gemini, ollama or openai
	APIKey        string
	Model         string
	BaseURL       string
	Timeout       time.Duration
	FetchURL      bool
	FetchTimeout  time.Duration
	MaxImageBytes int
	DefaultLevel  string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

// StoreConfig selects where the per-session result slot lives.
type StoreConfig struct {
	Driver string // memory or redis
	TTL    time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type PDFConfig struct {
	Mode            string // screenshot or print
	ChromePath      string
	NoSandbox       bool
	DownloadBrowser bool
	Scale           float64
	ViewportWidth   int
	Timeout         time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.body_limit", 12*1024*1024)

	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")

	v.SetDefault("generation.provider", "gemini")
	v.SetDefault("generation.model", "gemini-2.0-flash")
	v.SetDefault("generation.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("generation.timeout", 90)
	v.SetDefault("generation.fetch_url", false)
	v.SetDefault("generation.fetch_timeout", 10)
	v.SetDefault("generation.max_image_bytes", 8*1024*1024)
	v.SetDefault("generation.default_level", "high-school")

	v.SetDefault("ollama.server_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llava")
	v.SetDefault("openai.model", "gpt-4o-mini")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.ttl", "24h")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("pdf.mode", "screenshot")
	v.SetDefault("pdf.no_sandbox", false)
	v.SetDefault("pdf.download_browser", false)
	v.SetDefault("pdf.scale", 2.0)
	v.SetDefault("pdf.viewport_width", 900)
	v.SetDefault("pdf.timeout", 45)
}

// LoadConfig reads config.yaml when present and applies environment overrides.
// A missing config file is not an error; every key has a default.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: v.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		Generation: GenerationConfig{
			Provider:      strings.ToLower(v.GetString("generation.provider")),
			APIKey:        v.GetString("generation.api_key"),
			Model:         v.GetString("generation.model"),
			BaseURL:       strings.TrimRight(v.GetString("generation.base_url"), "/"),
			Timeout:       v.GetDuration("generation.timeout") * time.Second,
			FetchURL:      v.GetBool("generation.fetch_url"),
			FetchTimeout:  v.GetDuration("generation.fetch_timeout") * time.Second,
			MaxImageBytes: v.GetInt("generation.max_image_bytes"),
			DefaultLevel:  v.GetString("generation.default_level"),
		},
		Ollama: OllamaConfig{
			ServerURL: v.GetString("ollama.server_url"),
			Model:     v.GetString("ollama.model"),
		},
		OpenAI: OpenAIConfig{
			APIKey: v.GetString("openai.api_key"),
			Model:  v.GetString("openai.model"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			TTL:    v.GetDuration("store.ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		PDF: PDFConfig{
			Mode:            strings.ToLower(v.GetString("pdf.mode")),
			ChromePath:      v.GetString("pdf.chrome_path"),
			NoSandbox:       v.GetBool("pdf.no_sandbox"),
			DownloadBrowser: v.GetBool("pdf.download_browser"),
			Scale:           v.GetFloat64("pdf.scale"),
			ViewportWidth:   v.GetInt("pdf.viewport_width"),
			Timeout:         v.GetDuration("pdf.timeout") * time.Second,
		},
	}

	// The API credential is read once, here. GENERATION_API_KEY also works
	// through AutomaticEnv; the conventional Gemini name wins.
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.Generation.APIKey = apiKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case "gemini", "ollama", "openai":
	default:
		return fmt.Errorf("unsupported generation provider: %q", c.Generation.Provider)
	}
	switch c.Store.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Store.Driver)
	}
	switch c.PDF.Mode {
	case "screenshot", "print":
	default:
		return fmt.Errorf("unsupported pdf mode: %q", c.PDF.Mode)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
