package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/render"
)

// TablePrinter prints task breakdown information for humans. Breakdowns are
// rendered as terminal markdown, lists as tables.
type TablePrinter struct {
	writer   io.Writer
	markdown func(md string) (string, error)
	footer   bool
}

// NewTablePrinter creates a new table printer that renders breakdowns with
// terminal styles.
func NewTablePrinter(w io.Writer, opts render.TerminalOptions) *TablePrinter {
	return &TablePrinter{
		writer:   w,
		markdown: func(md string) (string, error) { return render.Terminal(md, opts) },
		footer:   true,
	}
}

// NewMarkdownPrinter creates a new table printer that prints breakdowns as
// the raw markdown returned by the model.
func NewMarkdownPrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{
		writer:   w,
		markdown: func(md string) (string, error) { return md + "\n", nil },
	}
}

// PrintBreakdown prints the breakdown of a succeeded submission.
func (t *TablePrinter) PrintBreakdown(sub model.Submission) error {
	if sub.Breakdown == nil {
		return fmt.Errorf("submission %s has no breakdown", sub.ID)
	}
	b := sub.Breakdown

	out, err := t.markdown(b.Text)
	if err != nil {
		return err
	}
	fmt.Fprint(t.writer, out)

	if b.Caution {
		fmt.Fprintf(t.writer, "\n> **Caution:** %s\n", b.CautionMessage)
	}

	if t.footer {
		fmt.Fprintf(t.writer, "\nModel: %s/%s  Template: %s  Started: %s  Took: %s  ID: %s\n",
			b.Provider, b.Model, b.Template, FormatTimestamp(sub.StartedAt), FormatDuration(sub.Duration()), sub.ID)
	}

	return nil
}

// PrintTemplates prints prompt templates in a table format.
func (t *TablePrinter) PrintTemplates(tpls []model.PromptTemplate, current string) error {
	if len(tpls) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "NAME\tMAX TOKENS\tTOTAL HOURS\tCAUTION\tIN USE")
	for _, tpl := range tpls {
		inUse := ""
		if tpl.Name == current {
			inUse = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", tpl.Name, tpl.MaxTokens, yesNo(tpl.IncludeTotalHours), yesNo(tpl.Caution), inUse)
	}

	return nil
}

// PrintChecks prints the preflight check results and a summary.
func (t *TablePrinter) PrintChecks(results []model.CheckResult) error {
	for _, r := range results {
		fmt.Fprintf(t.writer, "  %s %-12s %s\n", statusIcon(r.Status), r.ID, r.Message)
	}

	_, warnings, errors := model.CountByStatus(results)
	fmt.Fprintln(t.writer)
	if errors == 0 && warnings == 0 {
		fmt.Fprintln(t.writer, "All checks passed!")
		return nil
	}

	var summary []string
	if errors > 0 {
		summary = append(summary, fmt.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		summary = append(summary, fmt.Sprintf("%d warning(s)", warnings))
	}
	fmt.Fprintln(t.writer, strings.Join(summary, ", "))

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func statusIcon(status model.CheckStatus) string {
	switch status {
	case model.CheckStatusOK:
		return "OK"
	case model.CheckStatusWarning:
		return "!!"
	case model.CheckStatusError:
		return "XX"
	default:
		return "??"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
