package printer_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/printer"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/render"
)

func submissionFixture(caution bool) model.Submission {
	startedAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	b := &model.Breakdown{
		Text:     "### Step 1: Clear the counters\n- **Time:** 15 minutes",
		Provider: "openai",
		Model:    "gpt-4",
		Template: "estimate",
	}
	if caution {
		b.Caution = true
		b.CautionMessage = render.CautionMessage
	}

	return model.Submission{
		ID:         "01234567890ABCDEFGHIJKLMNOP",
		State:      model.SubmissionStateSucceeded,
		Breakdown:  b,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(1200 * time.Millisecond),
	}
}

func TestTablePrinterPrintBreakdown(t *testing.T) {
	tests := map[string]struct {
		printer     func(buf *bytes.Buffer) printer.Printer
		sub         model.Submission
		expContains []string
		expMissing  []string
	}{
		"Terminal output should render the markdown and the footer.": {
			printer: func(buf *bytes.Buffer) printer.Printer {
				return printer.NewTablePrinter(buf, render.TerminalOptions{Style: "notty"})
			},
			sub:         submissionFixture(false),
			expContains: []string{"Step 1: Clear the counters", "Model: openai/gpt-4", "Started: 2026-01-30 10:00:00 UTC", "Took: 1.2s", "ID: 01234567890ABCDEFGHIJKLMNOP"},
			expMissing:  []string{"Caution"},
		},

		"Markdown output should print the text verbatim.": {
			printer: func(buf *bytes.Buffer) printer.Printer {
				return printer.NewMarkdownPrinter(buf)
			},
			sub:         submissionFixture(false),
			expContains: []string{"### Step 1: Clear the counters\n- **Time:** 15 minutes\n"},
			expMissing:  []string{"Model:"},
		},

		"A caution should be printed after the breakdown.": {
			printer: func(buf *bytes.Buffer) printer.Printer {
				return printer.NewMarkdownPrinter(buf)
			},
			sub:         submissionFixture(true),
			expContains: []string{"> **Caution:** " + render.CautionMessage},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := test.printer(&buf).PrintBreakdown(test.sub)
			require.NoError(t, err)

			out := buf.String()
			for _, exp := range test.expContains {
				assert.Contains(t, out, exp)
			}
			for _, exp := range test.expMissing {
				assert.NotContains(t, out, exp)
			}
		})
	}
}

func TestPrintBreakdownWithoutBreakdownFails(t *testing.T) {
	sub := model.Submission{ID: "01TEST", State: model.SubmissionStateFailed}

	assert.Error(t, printer.NewMarkdownPrinter(&bytes.Buffer{}).PrintBreakdown(sub))
	assert.Error(t, printer.NewJSONPrinter(&bytes.Buffer{}).PrintBreakdown(sub))
}

func TestJSONPrinterPrintBreakdown(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintBreakdown(submissionFixture(true))
	require.NoError(t, err)

	got := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "01234567890ABCDEFGHIJKLMNOP", got["id"])
	assert.Equal(t, "succeeded", got["state"])
	assert.Equal(t, true, got["caution"])
	assert.Equal(t, render.CautionMessage, got["caution_message"])
	assert.Equal(t, "gpt-4", got["model"])
	assert.Equal(t, float64(1200), got["duration_ms"])
}

func TestTablePrinterPrintTemplates(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, render.TerminalOptions{})

	err := p.PrintTemplates(prompt.Templates(), prompt.TemplateEstimate)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "MAX TOKENS")
	assert.Regexp(t, `estimate\s+800\s+yes\s+yes\s+\*`, out)
	assert.Regexp(t, `simple\s+500\s+no\s+no`, out)
}

func TestJSONPrinterPrintTemplates(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintTemplates(prompt.Templates(), prompt.TemplateSimple)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, len(prompt.Templates()))
	for _, tpl := range got {
		assert.Equal(t, tpl["name"] == prompt.TemplateSimple, tpl["in_use"])
	}
}

func TestTablePrinterPrintChecks(t *testing.T) {
	tests := map[string]struct {
		results     []model.CheckResult
		expContains []string
	}{
		"All ok should say all passed.": {
			results:     []model.CheckResult{{ID: "provider", Status: model.CheckStatusOK, Message: "using openai"}},
			expContains: []string{"OK provider", "using openai", "All checks passed!"},
		},
		"Errors and warnings should be summarized.": {
			results: []model.CheckResult{
				{ID: "api_key", Status: model.CheckStatusError, Message: "missing"},
				{ID: "provider", Status: model.CheckStatusWarning, Message: "fake"},
			},
			expContains: []string{"XX api_key", "!! provider", "1 error(s), 1 warning(s)"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf, render.TerminalOptions{})

			require.NoError(t, p.PrintChecks(test.results))
			for _, exp := range test.expContains {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, render.TerminalOptions{})

	err := p.PrintMessage("hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", buf.String())
}

func TestJSONPrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintMessage("hello world")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hello world"}`, buf.String())
}
