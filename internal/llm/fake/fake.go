package fake

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
)

// DefaultResponse is the breakdown answered when none is configured.
const DefaultResponse = `### Step 1: Plan
- **Action:** Review the task and list what is needed.
- **Time:** 15 minutes
- **Effort:** Low

### Step 2: Execute
- **Action:** Work through the task in order.
- **Time:** 1 hour
- **Effort:** Medium

### Step 3: Review
- **Action:** Check the result and tidy up.
- **Time:** 15 minutes
- **Effort:** Low

**Time allocation:** 1.5 hours in total.`

// CompleterConfig is the configuration for the fake completer.
type CompleterConfig struct {
	// Response is the completion text returned on every call.
	Response string
	// Err makes every call fail with this error.
	Err    error
	Logger log.Logger
}

func (c *CompleterConfig) defaults() error {
	if c.Response == "" {
		c.Response = DefaultResponse
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "llm.Fake"})
	return nil
}

// Completer is a fake completer that answers without calling any remote API.
type Completer struct {
	response string
	err      error
	logger   log.Logger
}

// NewCompleter returns a new fake completer.
func NewCompleter(cfg CompleterConfig) (*Completer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Completer{
		response: cfg.Response,
		err:      cfg.Err,
		logger:   cfg.Logger,
	}, nil
}

// Complete returns the configured response.
func (c *Completer) Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCompletion, err)
	}
	if c.err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCompletion, c.err)
	}

	c.logger.Debugf("Answering fake completion (prompt: %d bytes)", len(req.Prompt))

	return &model.Completion{
		Text:     strings.TrimSpace(c.response),
		Provider: string(model.ProviderFake),
		Model:    model.ProviderFake.DefaultModel(),
	}, nil
}
