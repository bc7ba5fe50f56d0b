package commands

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/taskbreak/internal/conventions"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/utils/env"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	ConfigPath string
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Template   string
	Timeout    time.Duration

	// Global instances.
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    log.Logger
	LookupEnv env.LookupFunc

	defaultConfigPath string
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{
		defaultConfigPath: conventions.ConfigPath(homedir.HomeDir()),
	}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("config", "Path to the YAML configuration file, ignored when the default one doesn't exist.").Default(c.defaultConfigPath).StringVar(&c.ConfigPath)

	app.Flag("provider", "LLM provider ("+joinProviders()+").").StringVar(&c.Provider)
	app.Flag("model", "Model name, the provider default when empty.").StringVar(&c.Model)
	app.Flag("api-key", "LLM provider API key, "+conventions.APIKeyEnvVar+" or the provider env var are used when missing.").NoEnvar().StringVar(&c.APIKey)
	app.Flag("base-url", "LLM provider API base URL.").StringVar(&c.BaseURL)
	app.Flag("template", "Prompt template ("+joinTemplates()+").").StringVar(&c.Template)
	app.Flag("timeout", "Timeout of a completion request, unset means the transport default.").DurationVar(&c.Timeout)

	return c
}

func joinProviders() string {
	ps := []string{}
	for _, p := range model.Providers() {
		ps = append(ps, string(p))
	}
	return strings.Join(ps, ", ")
}

func joinTemplates() string {
	ts := []string{}
	for _, t := range prompt.Templates() {
		ts = append(ts, t.Name)
	}
	return strings.Join(ts, ", ")
}
