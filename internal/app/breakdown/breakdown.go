package breakdown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/taskbreak/internal/llm"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/render"
)

// ServiceConfig is the configuration for the breakdown service.
type ServiceConfig struct {
	Completer llm.Completer
	// Template is the prompt template, the default built-in template when empty.
	Template model.PromptTemplate
	Logger   log.Logger
	IDGen    func() string
	Now      func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Completer == nil {
		return fmt.Errorf("completer is required")
	}
	if c.Template.Name == "" {
		t, err := prompt.Template(prompt.DefaultTemplateName)
		if err != nil {
			return err
		}
		c.Template = t
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Breakdown"})
	if c.IDGen == nil {
		c.IDGen = func() string { return ulid.Make().String() }
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

// Service handles task breakdown submissions. It doesn't keep state between
// submissions so it's safe for concurrent use.
type Service struct {
	completer llm.Completer
	builder   *prompt.Builder
	tpl       model.PromptTemplate
	logger    log.Logger
	idGen     func() string
	now       func() time.Time
}

// NewService creates a new breakdown service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	builder, err := prompt.NewBuilder(prompt.BuilderConfig{Template: cfg.Template})
	if err != nil {
		return nil, fmt.Errorf("could not create prompt builder: %w", err)
	}

	return &Service{
		completer: cfg.Completer,
		builder:   builder,
		tpl:       cfg.Template,
		logger:    cfg.Logger,
		idGen:     cfg.IDGen,
		now:       cfg.Now,
	}, nil
}

// Template returns the prompt template used by the service.
func (s *Service) Template() model.PromptTemplate { return s.tpl }

// Request contains the parameters of a breakdown submission.
type Request struct {
	Task model.TaskRequest
}

// Run processes a submission. The returned submission is never nil and is always
// in a terminal state, on failure the error is also returned so callers can
// use errors.Is with model.ErrNotValid or model.ErrCompletion. The service keeps
// no state, after any outcome it is awaiting the next submission.
func (s *Service) Run(ctx context.Context, req Request) (*model.Submission, error) {
	sub := model.NewSubmission(s.idGen(), req.Task, s.now())
	sub.State = model.SubmissionStateProcessing
	ctx = s.logger.SetValuesOnCtx(ctx, log.Kv{"submission": sub.ID})
	logger := s.logger.WithCtxValues(ctx)

	// 1. Validate, nothing is called when the request is not valid.
	if err := req.Task.Validate(); err != nil {
		logger.Infof("Rejected submission: %s", err)
		return s.fail(sub, model.FailureKindValidation, err), err
	}

	// 2. Build prompt.
	p, err := s.builder.Build(req.Task)
	if err != nil {
		err = fmt.Errorf("could not build prompt: %w", err)
		return s.fail(sub, model.FailureKindValidation, err), err
	}
	sub.Prompt = p

	// 3. Call the LLM.
	completion, err := s.completer.Complete(ctx, model.CompletionRequest{
		SystemPrompt: s.tpl.SystemPrompt,
		Prompt:       p,
		MaxTokens:    s.tpl.MaxTokens,
	})
	if err != nil {
		if !errors.Is(err, model.ErrCompletion) {
			err = fmt.Errorf("%w: %w", model.ErrCompletion, err)
		}
		logger.Warningf("Completion failed: %s", err)
		return s.fail(sub, model.FailureKindRemote, err), err
	}

	// 4. Post-process the response.
	b := render.Analyze(*completion, s.tpl)
	sub.Breakdown = &b
	sub.State = model.SubmissionStateSucceeded
	sub.FinishedAt = s.now()

	logger.Infof("Task %q broken down with %s/%s in %s (caution: %t)", req.Task.Name, b.Provider, b.Model, sub.Duration(), b.Caution)

	return sub, nil
}

func (s *Service) fail(sub *model.Submission, kind model.FailureKind, err error) *model.Submission {
	sub.State = model.SubmissionStateFailed
	sub.Failure = &model.Failure{
		Kind:    kind,
		Message: err.Error(),
		Err:     err,
	}
	sub.FinishedAt = s.now()
	return sub
}
