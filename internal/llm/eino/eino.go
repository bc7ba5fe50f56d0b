package eino

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
)

// CompleterConfig is the configuration for the eino completer.
type CompleterConfig struct {
	ChatModel einomodel.BaseChatModel
	Provider  model.Provider
	Model     string
	// Timeout bounds every completion call, zero means the transport default.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *CompleterConfig) defaults() error {
	if c.ChatModel == nil {
		return fmt.Errorf("chat model is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Model == "" {
		c.Model = c.Provider.DefaultModel()
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "llm.Eino", "provider": c.Provider, "model": c.Model})
	return nil
}

// Completer calls chat completions using an eino chat model.
type Completer struct {
	cm       einomodel.BaseChatModel
	provider model.Provider
	model    string
	timeout  time.Duration
	logger   log.Logger
}

// NewCompleter returns a new eino completer.
func NewCompleter(cfg CompleterConfig) (*Completer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Completer{
		cm:       cfg.ChatModel,
		provider: cfg.Provider,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}, nil
}

// Complete sends the system instruction and the prompt as the user turn and returns
// the first candidate content trimmed. Every failure wraps model.ErrCompletion.
func (c *Completer) Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msgs := []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(req.Prompt),
	}

	var opts []einomodel.Option
	if req.MaxTokens > 0 {
		opts = append(opts, einomodel.WithMaxTokens(req.MaxTokens))
	}

	logger := c.logger.WithCtxValues(ctx)
	logger.Debugf("Requesting completion (prompt: %d bytes, max tokens: %d)", len(req.Prompt), req.MaxTokens)

	resp, err := c.cm.Generate(ctx, msgs, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request: %w", model.ErrCompletion, c.provider, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s returned no message", model.ErrCompletion, c.provider)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return nil, fmt.Errorf("%w: %s returned an empty completion", model.ErrCompletion, c.provider)
	}

	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		logger.Debugf("Completion usage: prompt %d tokens, completion %d tokens", resp.ResponseMeta.Usage.PromptTokens, resp.ResponseMeta.Usage.CompletionTokens)
	}

	return &model.Completion{
		Text:     text,
		Provider: string(c.provider),
		Model:    c.model,
	}, nil
}
