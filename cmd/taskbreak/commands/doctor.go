package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskbreak/internal/app/check"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/printer"
	"github.com/slok/taskbreak/internal/render"
)

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run preflight checks of the LLM provider configuration.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	s, err := c.rootCmd.loadSettings(ctx)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}

	svc, err := check.NewService(check.ServiceConfig{
		Provider:    s.Provider,
		Model:       s.Model,
		Credentials: s.Credentials,
		KeySource:   s.KeySource,
		Template:    s.Template,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	results := svc.Run(ctx)

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout, render.TerminalOptions{})
	}

	if err := p.PrintChecks(results); err != nil {
		return fmt.Errorf("could not print checks: %w", err)
	}

	if _, _, errors := model.CountByStatus(results); errors > 0 {
		return fmt.Errorf("preflight checks failed with %d error(s)", errors)
	}

	return nil
}
