package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
)

// ServiceConfig is the configuration for the check service.
type ServiceConfig struct {
	Provider    model.Provider
	Model       string
	Credentials model.Credentials
	// KeySource is where the API key was read from, only used for reporting.
	KeySource string
	Template  model.PromptTemplate
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Template.Name == "" {
		return fmt.Errorf("template is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Check"})
	return nil
}

// Service runs preflight checks of the configured stack.
type Service struct {
	cfg    ServiceConfig
	logger log.Logger
}

// NewService creates a new check service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{cfg: cfg, logger: cfg.Logger}, nil
}

// Run runs all the checks, it never stops on the first failure.
func (s *Service) Run(ctx context.Context) []model.CheckResult {
	results := []model.CheckResult{
		s.checkProvider(),
		s.checkModel(),
		s.checkAPIKey(),
		s.checkBaseURL(),
		s.checkTemplate(),
	}

	_, warnings, errors := model.CountByStatus(results)
	s.logger.Debugf("Checks finished with %d warnings and %d errors", warnings, errors)

	return results
}

func (s *Service) checkProvider() model.CheckResult {
	if _, err := model.ParseProvider(string(s.cfg.Provider)); err != nil {
		return model.CheckResult{ID: "provider", Status: model.CheckStatusError, Message: err.Error()}
	}
	msg := fmt.Sprintf("using %s", s.cfg.Provider)
	if s.cfg.Provider == model.ProviderFake {
		return model.CheckResult{ID: "provider", Status: model.CheckStatusWarning, Message: msg + ", responses are canned"}
	}
	return model.CheckResult{ID: "provider", Status: model.CheckStatusOK, Message: msg}
}

func (s *Service) checkModel() model.CheckResult {
	if s.cfg.Model == "" {
		return model.CheckResult{ID: "model", Status: model.CheckStatusWarning, Message: fmt.Sprintf("not set, using %q", s.cfg.Provider.DefaultModel())}
	}
	return model.CheckResult{ID: "model", Status: model.CheckStatusOK, Message: s.cfg.Model}
}

func (s *Service) checkAPIKey() model.CheckResult {
	if !s.cfg.Provider.RequiresAPIKey() {
		return model.CheckResult{ID: "api_key", Status: model.CheckStatusOK, Message: "not required"}
	}
	if s.cfg.Credentials.APIKey == "" {
		return model.CheckResult{ID: "api_key", Status: model.CheckStatusError, Message: "missing, use --api-key or set it on the environment"}
	}

	source := s.cfg.KeySource
	if source == "" {
		source = "flag"
	}
	return model.CheckResult{ID: "api_key", Status: model.CheckStatusOK, Message: "set from " + source}
}

func (s *Service) checkBaseURL() model.CheckResult {
	if s.cfg.Credentials.BaseURL == "" {
		return model.CheckResult{ID: "base_url", Status: model.CheckStatusOK, Message: "provider default"}
	}
	if err := (model.Credentials{BaseURL: s.cfg.Credentials.BaseURL}).Validate(false); err != nil {
		return model.CheckResult{ID: "base_url", Status: model.CheckStatusError, Message: err.Error()}
	}
	return model.CheckResult{ID: "base_url", Status: model.CheckStatusOK, Message: s.cfg.Credentials.BaseURL}
}

func (s *Service) checkTemplate() model.CheckResult {
	b, err := prompt.NewBuilder(prompt.BuilderConfig{Template: s.cfg.Template})
	if err != nil {
		return model.CheckResult{ID: "template", Status: model.CheckStatusError, Message: err.Error()}
	}

	hours := 1.0
	sample := model.TaskRequest{
		Name:        "Sample task name",
		Description: "Sample task description",
		Effort:      model.EffortMedium,
		Complexity:  model.DefaultComplexity,
		TotalHours:  &hours,
	}
	p, err := b.Build(sample)
	if err != nil {
		return model.CheckResult{ID: "template", Status: model.CheckStatusError, Message: err.Error()}
	}

	missing := []string{}
	if !strings.Contains(p, sample.Name) {
		missing = append(missing, "name")
	}
	if !strings.Contains(p, sample.Description) {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return model.CheckResult{ID: "template", Status: model.CheckStatusWarning, Message: fmt.Sprintf("%q renders without the task %s", s.cfg.Template.Name, strings.Join(missing, " and "))}
	}

	return model.CheckResult{ID: "template", Status: model.CheckStatusOK, Message: fmt.Sprintf("%q renders (max tokens: %d)", s.cfg.Template.Name, s.cfg.Template.MaxTokens)}
}
