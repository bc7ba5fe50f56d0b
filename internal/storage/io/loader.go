package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
)

const customTemplateName = "custom"

// ConfigYAMLRepository loads the application configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads the application configuration from a YAML file and returns a validated domain model.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.AppConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.AppConfig{}, ctx.Err()
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.AppConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg.toModel()
}

// AppConfig represents the YAML structure of the application configuration.
type AppConfig struct {
	Provider string         `yaml:"provider"`
	Model    string         `yaml:"model"`
	BaseURL  string         `yaml:"base_url"`
	Timeout  time.Duration  `yaml:"timeout"`
	Template TemplateConfig `yaml:"template"`
	Server   ServerConfig   `yaml:"server"`
}

// TemplateConfig represents the YAML structure of the prompt template configuration.
// When Text is set a custom template is used, otherwise Name selects a built-in one
// and the rest of the fields override it.
type TemplateConfig struct {
	Name              string `yaml:"name"`
	SystemPrompt      string `yaml:"system_prompt"`
	Text              string `yaml:"text"`
	IncludeTotalHours *bool  `yaml:"include_total_hours"`
	MaxTokens         int    `yaml:"max_tokens"`
	Caution           *bool  `yaml:"caution"`
}

// ServerConfig represents the YAML structure of the HTTP server configuration.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address"`
}

func (c AppConfig) validate() error {
	if c.Provider != "" {
		if _, err := model.ParseProvider(c.Provider); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout can't be negative, got: %s", c.Timeout)
	}
	if c.BaseURL != "" {
		if err := (model.Credentials{BaseURL: c.BaseURL}).Validate(false); err != nil {
			return err
		}
	}
	if err := c.Template.validate(); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	return nil
}

func (c TemplateConfig) validate() error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be positive, got: %d", c.MaxTokens)
	}
	if c.Text == "" && c.Name != "" {
		if _, err := prompt.Template(c.Name); err != nil {
			return fmt.Errorf("unknown template: %w", err)
		}
	}
	return nil
}

func (c AppConfig) toModel() (model.AppConfig, error) {
	cfg := model.AppConfig{
		Model:         c.Model,
		BaseURL:       c.BaseURL,
		Timeout:       c.Timeout,
		TemplateName:  c.Template.Name,
		ListenAddress: c.Server.ListenAddress,
	}

	if c.Provider != "" {
		p, err := model.ParseProvider(c.Provider)
		if err != nil {
			return model.AppConfig{}, err
		}
		cfg.Provider = string(p)
	}

	tpl, err := c.Template.toModel()
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid template: %w", err)
	}
	cfg.Template = tpl

	return cfg, nil
}

// toModel returns nil when the configuration only selects a built-in template.
func (c TemplateConfig) toModel() (*model.PromptTemplate, error) {
	overrides := c.SystemPrompt != "" || c.IncludeTotalHours != nil || c.MaxTokens > 0 || c.Caution != nil
	if c.Text == "" && !overrides {
		return nil, nil
	}

	var tpl model.PromptTemplate
	if c.Text != "" {
		tpl = model.PromptTemplate{
			Name:              c.Name,
			SystemPrompt:      prompt.DefaultSystemPrompt,
			Text:              c.Text,
			IncludeTotalHours: true,
			MaxTokens:         800,
		}
		if tpl.Name == "" {
			tpl.Name = customTemplateName
		}
	} else {
		name := c.Name
		if name == "" {
			name = prompt.DefaultTemplateName
		}
		builtin, err := prompt.Template(name)
		if err != nil {
			return nil, err
		}
		tpl = builtin
	}

	if c.SystemPrompt != "" {
		tpl.SystemPrompt = c.SystemPrompt
	}
	if c.IncludeTotalHours != nil {
		tpl.IncludeTotalHours = *c.IncludeTotalHours
	}
	if c.MaxTokens > 0 {
		tpl.MaxTokens = c.MaxTokens
	}
	if c.Caution != nil {
		tpl.Caution = *c.Caution
	}

	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	return &tpl, nil
}
