package lib

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/app/check"
	"github.com/slok/taskbreak/internal/llm"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/utils/env"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use OpenAI with the key from the environment.
type Config struct {
	// Provider is the LLM provider.
	// Default: [ProviderOpenAI].
	Provider Provider

	// Model is the model name.
	// Default: the provider default model (e.g. "gpt-4" for OpenAI).
	Model string

	// APIKey is the LLM provider API key.
	// Default: TASKBREAK_API_KEY or the provider env var.
	APIKey string

	// BaseURL overrides the provider API endpoint.
	BaseURL string

	// Template is the name of the built-in prompt template.
	// Default: "detailed".
	Template string

	// Timeout bounds every completion request.
	// Default: none, the provider transport default applies.
	Timeout time.Duration

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Provider == "" {
		c.Provider = Provider(model.DefaultProvider)
	}

	if c.Template == "" {
		c.Template = prompt.DefaultTemplateName
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative: %w", ErrNotValid)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point to break down tasks programmatically.
//
// Create a Client with [New]. A Client is safe for concurrent use.
type Client struct {
	svc      *breakdown.Service
	checker  *check.Service
	template model.PromptTemplate
}

// New creates a new SDK client.
//
// Returns [ErrNotFound] if the template is unknown, or [ErrNotValid] if the
// provider is unknown or requires an API key and none is found.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := model.ParseProvider(string(cfg.Provider))
	if err != nil {
		return nil, mapError(err)
	}

	tpl, err := prompt.Template(cfg.Template)
	if err != nil {
		return nil, mapError(err)
	}

	creds := model.Credentials{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}
	keySource := "config"
	if creds.APIKey == "" {
		creds.APIKey, keySource = env.LookupAPIKey(os.LookupEnv, provider)
	}

	checker, err := check.NewService(check.ServiceConfig{
		Provider:    provider,
		Model:       cfg.Model,
		Credentials: creds,
		KeySource:   keySource,
		Template:    tpl,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create check service: %w", err)
	}

	if err := creds.Validate(provider.RequiresAPIKey()); err != nil {
		return nil, mapError(fmt.Errorf("invalid %s credentials: %w", provider, err))
	}

	completer, err := llm.NewCompleter(ctx, llm.Config{
		Provider:    provider,
		Model:       cfg.Model,
		Credentials: creds,
		MaxTokens:   tpl.MaxTokens,
		Timeout:     cfg.Timeout,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create LLM completer: %w", err))
	}

	svc, err := breakdown.NewService(breakdown.ServiceConfig{
		Completer: completer,
		Template:  tpl,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create service: %w", err))
	}

	return &Client{
		svc:      svc,
		checker:  checker,
		template: tpl,
	}, nil
}

// Breakdown breaks a task down into actionable steps with a single LLM request.
//
// Returns [ErrNotValid] if the task is not valid (the LLM is not called), or
// [ErrCompletion] if the LLM provider call fails.
func (c *Client) Breakdown(ctx context.Context, req TaskRequest) (*Breakdown, error) {
	sub, err := c.svc.Run(ctx, breakdown.Request{Task: toInternalTaskRequest(req)})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalSubmission(*sub), nil
}

// Prompt returns the prompt that would be sent for a task, without calling the LLM.
//
// Returns [ErrNotValid] if the task is not valid.
func (c *Client) Prompt(req TaskRequest) (string, error) {
	task := toInternalTaskRequest(req)
	if err := task.Validate(); err != nil {
		return "", mapError(err)
	}

	b, err := prompt.NewBuilder(prompt.BuilderConfig{Template: c.template})
	if err != nil {
		return "", mapError(err)
	}

	p, err := b.Build(task)
	if err != nil {
		return "", mapError(err)
	}

	return p, nil
}

// Template returns the prompt template used by the client.
func (c *Client) Template() Template {
	return fromInternalTemplate(c.template)
}

// Templates returns the built-in prompt templates.
func Templates() []Template {
	tpls := []Template{}
	for _, t := range prompt.Templates() {
		tpls = append(tpls, fromInternalTemplate(t))
	}
	return tpls
}

// Doctor runs preflight checks of the client configuration.
//
// Returns a slice of [CheckResult] describing each check's outcome.
func (c *Client) Doctor(ctx context.Context) []CheckResult {
	return fromInternalCheckResults(c.checker.Run(ctx))
}
