package eino

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/slok/taskbreak/internal/model"
)

// DefaultOllamaURL is the default URL of a local Ollama server.
const DefaultOllamaURL = "http://localhost:11434"

// ChatModelConfig is the configuration to create a provider chat model.
type ChatModelConfig struct {
	Provider    model.Provider
	Model       string
	Credentials model.Credentials
	MaxTokens   int
	Timeout     time.Duration
}

func (c *ChatModelConfig) defaults() error {
	if c.Provider == "" {
		c.Provider = model.DefaultProvider
	}
	if c.Model == "" {
		c.Model = c.Provider.DefaultModel()
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got: %d", c.MaxTokens)
	}
	if err := c.Credentials.Validate(c.Provider.RequiresAPIKey()); err != nil {
		return fmt.Errorf("invalid %s credentials: %w", c.Provider, err)
	}
	return nil
}

// NewChatModel creates the eino chat model of the configured provider.
func NewChatModel(ctx context.Context, cfg ChatModelConfig) (einomodel.BaseChatModel, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var (
		cm  einomodel.BaseChatModel
		err error
	)
	switch cfg.Provider {
	case model.ProviderOpenAI:
		maxTokens := cfg.MaxTokens
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:    cfg.Credentials.APIKey,
			BaseURL:   cfg.Credentials.BaseURL,
			Model:     cfg.Model,
			MaxTokens: &maxTokens,
			Timeout:   cfg.Timeout,
		})

	case model.ProviderAnthropic:
		var baseURL *string
		if cfg.Credentials.BaseURL != "" {
			u := cfg.Credentials.BaseURL
			baseURL = &u
		}
		cm, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.Credentials.APIKey,
			BaseURL:   baseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})

	case model.ProviderOllama:
		baseURL := cfg.Credentials.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		cm, err = ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})

	case model.ProviderGemini:
		client, cerr := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Credentials.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if cerr != nil {
			return nil, fmt.Errorf("could not create gemini client: %w", cerr)
		}
		maxTokens := cfg.MaxTokens
		cm, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client:    client,
			Model:     cfg.Model,
			MaxTokens: &maxTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported provider %q for eino chat models: %w", cfg.Provider, model.ErrNotValid)
	}
	if err != nil {
		return nil, err
	}

	return cm, nil
}
