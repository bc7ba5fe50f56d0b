package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/slok/taskbreak/internal/model"
)

// JSONPrinter prints task breakdown information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type breakdownOutput struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	Text           string    `json:"text"`
	Caution        bool      `json:"caution"`
	CautionMessage string    `json:"caution_message,omitempty"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	Template       string    `json:"template"`
	StartedAt      time.Time `json:"started_at"`
	DurationMS     int64     `json:"duration_ms"`
}

type templateOutput struct {
	Name              string `json:"name"`
	SystemPrompt      string `json:"system_prompt"`
	Text              string `json:"text"`
	IncludeTotalHours bool   `json:"include_total_hours"`
	MaxTokens         int    `json:"max_tokens"`
	Caution           bool   `json:"caution"`
	InUse             bool   `json:"in_use"`
}

type checkOutput struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintBreakdown prints the breakdown of a succeeded submission in JSON format.
func (j *JSONPrinter) PrintBreakdown(sub model.Submission) error {
	if sub.Breakdown == nil {
		return fmt.Errorf("submission %s has no breakdown", sub.ID)
	}

	return j.encode(breakdownOutput{
		ID:             sub.ID,
		State:          string(sub.State),
		Text:           sub.Breakdown.Text,
		Caution:        sub.Breakdown.Caution,
		CautionMessage: sub.Breakdown.CautionMessage,
		Provider:       sub.Breakdown.Provider,
		Model:          sub.Breakdown.Model,
		Template:       sub.Breakdown.Template,
		StartedAt:      sub.StartedAt.UTC(),
		DurationMS:     sub.Duration().Milliseconds(),
	})
}

// PrintTemplates prints prompt templates in JSON format.
func (j *JSONPrinter) PrintTemplates(tpls []model.PromptTemplate, current string) error {
	items := make([]templateOutput, len(tpls))
	for i, t := range tpls {
		items[i] = templateOutput{
			Name:              t.Name,
			SystemPrompt:      t.SystemPrompt,
			Text:              t.Text,
			IncludeTotalHours: t.IncludeTotalHours,
			MaxTokens:         t.MaxTokens,
			Caution:           t.Caution,
			InUse:             t.Name == current,
		}
	}
	return j.encode(items)
}

// PrintChecks prints preflight check results in JSON format.
func (j *JSONPrinter) PrintChecks(results []model.CheckResult) error {
	items := make([]checkOutput, len(results))
	for i, r := range results {
		items[i] = checkOutput{ID: r.ID, Status: string(r.Status), Message: r.Message}
	}
	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
