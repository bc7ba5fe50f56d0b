// Package render post-processes completions for display.
//
// The completion text is always displayed verbatim, rendering only changes how
// it looks on the display (HTML page or terminal).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/slok/taskbreak/internal/model"
)

// CautionMessage is shown when a completion looks like it flags the time estimate.
const CautionMessage = "Your total time estimate may be underestimated. Review the breakdown and consider adjusting it."

const warningToken = "warning"

// HasWarning returns true if the text contains "warning" in any case. It's a best
// effort hint, "no warnings needed" also matches.
func HasWarning(text string) bool {
	return strings.Contains(strings.ToLower(text), warningToken)
}

// Analyze returns the breakdown of a completion. The caution heuristic is only
// applied when enabled.
func Analyze(c model.Completion, tpl model.PromptTemplate) model.Breakdown {
	b := model.Breakdown{
		Text:     c.Text,
		Provider: c.Provider,
		Model:    c.Model,
		Template: tpl.Name,
	}

	if tpl.Caution && HasWarning(c.Text) {
		b.Caution = true
		b.CautionMessage = CautionMessage
	}

	return b
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// HTML renders markdown into sanitized HTML.
func HTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("could not render markdown: %w", err)
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// TerminalStyleAuto selects the style based on the terminal background.
const TerminalStyleAuto = "auto"

// TerminalOptions are the options to render markdown on a terminal.
type TerminalOptions struct {
	// Width is the word wrap width, 0 disables wrapping.
	Width int
	// Style is a glamour standard style (dark, light, notty...) or "auto".
	Style string
}

// Terminal renders markdown for a terminal.
func Terminal(md string, opts TerminalOptions) (string, error) {
	style := glamour.WithAutoStyle()
	if opts.Style != "" && opts.Style != TerminalStyleAuto {
		style = glamour.WithStandardStyle(opts.Style)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.Width))
	if err != nil {
		return "", fmt.Errorf("could not create terminal renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("could not render markdown: %w", err)
	}

	return out, nil
}
