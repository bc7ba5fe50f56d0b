package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/printer"
	"github.com/slok/taskbreak/internal/render"
)

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatTable    = "table"
)

type BreakdownCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name        string
	description string
	effort      string
	complexity  int
	hours       float64
	hoursSet    bool
	format      string
	width       int
	style       string
}

// NewBreakdownCommand returns the breakdown command.
func NewBreakdownCommand(rootCmd *RootCommand, app *kingpin.Application) *BreakdownCommand {
	c := &BreakdownCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("breakdown", "Break down a task into actionable steps.")
	c.Cmd.Flag("name", "Task name.").Short('n').StringVar(&c.name)
	c.Cmd.Flag("description", "Brief description of the task, use '-' to read it from stdin.").Short('d').StringVar(&c.description)
	c.Cmd.Flag("effort", "Estimated effort level (Low, Medium, High).").Default(string(model.EffortMedium)).StringVar(&c.effort)
	c.Cmd.Flag("complexity", "Complexity, the number of steps to break the task into (1-10).").Default(fmt.Sprint(model.DefaultComplexity)).IntVar(&c.complexity)
	c.Cmd.Flag("hours", "Total time estimate in hours.").IsSetByUser(&c.hoursSet).Float64Var(&c.hours)
	c.Cmd.Flag("format", "Output format (text, markdown, json).").Default(formatText).EnumVar(&c.format, formatText, formatMarkdown, formatJSON)
	c.Cmd.Flag("width", "Word wrap width of the text format, 0 disables it.").Default("80").IntVar(&c.width)
	c.Cmd.Flag("style", "Style of the text format (auto, dark, light, notty...).").Default(render.TerminalStyleAuto).StringVar(&c.style)

	return c
}

func (c BreakdownCommand) Name() string { return c.Cmd.FullCommand() }

func (c BreakdownCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	s, err := c.rootCmd.loadSettings(ctx)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}

	task, err := c.taskRequest()
	if err != nil {
		return err
	}

	svc, err := newBreakdownService(ctx, s, s.Credentials, logger)
	if err != nil {
		return err
	}

	sub, err := svc.Run(ctx, breakdown.Request{Task: task})
	if err != nil {
		return fmt.Errorf("could not break down task: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	case formatMarkdown:
		p = printer.NewMarkdownPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout, render.TerminalOptions{Width: c.width, Style: c.style})
	}

	if err := p.PrintBreakdown(*sub); err != nil {
		return fmt.Errorf("could not print breakdown: %w", err)
	}

	return nil
}

func (c BreakdownCommand) taskRequest() (model.TaskRequest, error) {
	description := c.description
	if description == "-" {
		b, err := io.ReadAll(c.rootCmd.Stdin)
		if err != nil {
			return model.TaskRequest{}, fmt.Errorf("could not read description from stdin: %w", err)
		}
		description = strings.TrimSpace(string(b))
	}

	effort, err := model.ParseEffortLevel(c.effort)
	if err != nil {
		return model.TaskRequest{}, err
	}

	task := model.TaskRequest{
		Name:        c.name,
		Description: description,
		Effort:      effort,
		Complexity:  c.complexity,
	}
	if c.hoursSet {
		h := c.hours
		task.TotalHours = &h
	}

	return task, nil
}
