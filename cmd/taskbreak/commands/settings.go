package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/conventions"
	"github.com/slok/taskbreak/internal/llm"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/storage/io"
	"github.com/slok/taskbreak/internal/utils/env"
)

// settings are the resolved settings of the application, flags have precedence over
// env vars, env vars over the config file and the config file over the defaults.
type settings struct {
	Provider    model.Provider
	Model       string
	Credentials model.Credentials
	// KeySource is where the API key was read from.
	KeySource     string
	Template      model.PromptTemplate
	Timeout       time.Duration
	ListenAddress string
}

func (r *RootCommand) loadSettings(ctx context.Context) (settings, error) {
	cfg, err := r.loadConfigFile(ctx)
	if err != nil {
		return settings{}, err
	}

	s := settings{
		Timeout:       firstDuration(r.Timeout, cfg.Timeout),
		ListenAddress: firstString(cfg.ListenAddress, conventions.DefaultListenAddress),
	}

	s.Provider, err = model.ParseProvider(firstString(r.Provider, cfg.Provider, string(model.DefaultProvider)))
	if err != nil {
		return settings{}, err
	}
	s.Model = firstString(r.Model, cfg.Model, s.Provider.DefaultModel())

	switch {
	case r.Template != "":
		s.Template, err = prompt.Template(r.Template)
		if err != nil {
			return settings{}, fmt.Errorf("invalid template flag: %w", err)
		}
	case cfg.Template != nil:
		s.Template = *cfg.Template
	default:
		s.Template, err = prompt.Template(firstString(cfg.TemplateName, prompt.DefaultTemplateName))
		if err != nil {
			return settings{}, err
		}
	}

	s.Credentials.BaseURL = firstString(r.BaseURL, cfg.BaseURL)
	s.Credentials.APIKey, s.KeySource = r.APIKey, "--api-key flag"
	if s.Credentials.APIKey == "" {
		lookup := r.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		s.Credentials.APIKey, s.KeySource = env.LookupAPIKey(lookup, s.Provider)
	}

	r.Logger.Debugf("Using %s/%s with %q template (API key from: %q)", s.Provider, s.Model, s.Template.Name, s.KeySource)

	return s, nil
}

// loadConfigFile loads the YAML configuration, a missing default config file is not an error.
func (r *RootCommand) loadConfigFile(ctx context.Context) (model.AppConfig, error) {
	if r.ConfigPath == "" {
		return model.AppConfig{}, nil
	}

	path, err := filepath.Abs(r.ConfigPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("could not resolve config path: %w", err)
	}

	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) && r.ConfigPath == r.defaultConfigPath {
		return model.AppConfig{}, nil
	}

	// The filesystem is rooted at "/", so the path must be relative to it.
	repo := io.NewConfigYAMLRepository(os.DirFS("/"))
	cfg, err := repo.GetConfig(ctx, path[1:])
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("could not load config %q: %w", path, err)
	}

	r.Logger.Debugf("Config loaded from %q", path)

	return cfg, nil
}

// newBreakdownService returns the breakdown service using the resolved settings and credentials.
func newBreakdownService(ctx context.Context, s settings, creds model.Credentials, logger log.Logger) (*breakdown.Service, error) {
	if err := creds.Validate(s.Provider.RequiresAPIKey()); err != nil {
		return nil, fmt.Errorf("invalid %s credentials: %w", s.Provider, err)
	}

	completer, err := llm.NewCompleter(ctx, llm.Config{
		Provider:    s.Provider,
		Model:       s.Model,
		Credentials: creds,
		MaxTokens:   s.Template.MaxTokens,
		Timeout:     s.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create LLM completer: %w", err)
	}

	svc, err := breakdown.NewService(breakdown.ServiceConfig{
		Completer: completer,
		Template:  s.Template,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	return svc, nil
}

func firstString(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDuration(vs ...time.Duration) time.Duration {
	for _, v := range vs {
		if v > 0 {
			return v
		}
	}
	return 0
}
