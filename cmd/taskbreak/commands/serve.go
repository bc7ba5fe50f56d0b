package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/web"
)

type ServeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listenAddress string
	askAPIKey     bool
}

// NewServeCommand returns the serve command.
func NewServeCommand(rootCmd *RootCommand, app *kingpin.Application) *ServeCommand {
	c := &ServeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("serve", "Serve the task breakdown web form and JSON API.")
	c.Cmd.Flag("listen-address", "Address the HTTP server listens on.").StringVar(&c.listenAddress)
	c.Cmd.Flag("ask-api-key", "Ask users for their API key on every submission, even if one is configured.").BoolVar(&c.askAPIKey)

	return c
}

func (c ServeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	s, err := c.rootCmd.loadSettings(ctx)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}

	cfg := web.ServerConfig{
		ListenAddr: firstString(c.listenAddress, s.ListenAddress),
		Template:   s.Template,
		Logger:     logger,
	}

	// Without a configured key, users type theirs in the form.
	if c.askAPIKey || (s.Provider.RequiresAPIKey() && s.Credentials.APIKey == "") {
		logger.Infof("No API key configured for %s, asking users for it", s.Provider)
		cfg.RunnerFactory = func(ctx context.Context, creds model.Credentials) (web.Runner, error) {
			creds.BaseURL = s.Credentials.BaseURL
			svc, err := newBreakdownService(ctx, s, creds, logger)
			if err != nil {
				return nil, err
			}
			return svc, nil
		}
	} else {
		svc, err := newBreakdownService(ctx, s, s.Credentials, logger)
		if err != nil {
			return err
		}
		cfg.Runner = svc
	}

	server, err := web.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	return server.Run(ctx)
}
