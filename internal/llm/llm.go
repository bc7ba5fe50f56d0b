// Package llm calls chat completions on the configured LLM provider.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/taskbreak/internal/llm/eino"
	"github.com/slok/taskbreak/internal/llm/fake"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
)

// Completer knows how to get a single chat completion.
type Completer interface {
	Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error)
}

// Config is the configuration to create a completer.
type Config struct {
	Provider    model.Provider
	Model       string
	Credentials model.Credentials
	// MaxTokens is set on providers that need it at creation time.
	MaxTokens int
	Timeout   time.Duration
	Logger    log.Logger
}

func (c *Config) defaults() error {
	if c.Provider == "" {
		c.Provider = model.DefaultProvider
	}
	if c.Model == "" {
		c.Model = c.Provider.DefaultModel()
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got: %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// NewCompleter returns the completer of the configured provider.
func NewCompleter(ctx context.Context, cfg Config) (Completer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Provider == model.ProviderFake {
		c, err := fake.NewCompleter(fake.CompleterConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create fake completer: %w", err)
		}
		return c, nil
	}

	cm, err := eino.NewChatModel(ctx, eino.ChatModelConfig{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Credentials: cfg.Credentials,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create %s chat model: %w", cfg.Provider, err)
	}

	c, err := eino.NewCompleter(eino.CompleterConfig{
		ChatModel: cm,
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		Timeout:   cfg.Timeout,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create eino completer: %w", err)
	}

	return c, nil
}
