package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/printer"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/render"
)

type TemplatesCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	show   string
	format string
}

// NewTemplatesCommand returns the templates command.
func NewTemplatesCommand(rootCmd *RootCommand, app *kingpin.Application) *TemplatesCommand {
	c := &TemplatesCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("templates", "List the prompt templates.")
	c.Cmd.Flag("show", "Print the text of a template.").StringVar(&c.show)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c TemplatesCommand) Name() string { return c.Cmd.FullCommand() }

func (c TemplatesCommand) Run(ctx context.Context) error {
	s, err := c.rootCmd.loadSettings(ctx)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}

	tpls := prompt.Templates()
	if _, err := prompt.Template(s.Template.Name); err != nil {
		// Custom template from the config file.
		tpls = append(tpls, s.Template)
	} else {
		// Built-in templates can be overridden by the config file.
		for i, t := range tpls {
			if t.Name == s.Template.Name {
				tpls[i] = s.Template
			}
		}
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout, render.TerminalOptions{})
	}

	if c.show == "" {
		if err := p.PrintTemplates(tpls, s.Template.Name); err != nil {
			return fmt.Errorf("could not print templates: %w", err)
		}
		return nil
	}

	for _, t := range tpls {
		if t.Name == c.show {
			return p.PrintMessage(t.Text)
		}
	}

	return fmt.Errorf("template %q: %w", c.show, model.ErrNotFound)
}
