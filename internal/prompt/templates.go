package prompt

import (
	"fmt"

	"github.com/slok/taskbreak/internal/model"
)

const (
	// DefaultTemplateName is the template used when none is selected.
	DefaultTemplateName = TemplateDetailed

	TemplateDetailed = "detailed"
	TemplateEstimate = "estimate"
	TemplateSimple   = "simple"

	// DefaultSystemPrompt is the system instruction sent on every completion.
	DefaultSystemPrompt = "You are a structured task breakdown assistant."
)

const detailedSteps = `Please provide a structured breakdown of the task into detailed steps. Each step should include:
1. Step Name
2. Action required
3. Time needed (in minutes or hours)
4. Effort level
Summarize time allocation and suggest adjustments if the breakdown exceeds or is unrealistic for the total time estimate.`

const detailedText = `Task Breakdown: {{ .Name }}
Total Time Estimate: {{ if .HasTotalHours }}{{ .TotalHours }} hours{{ else }}not provided{{ end }}

Description: {{ .Description }}
Effort Level: {{ .Effort }}
Complexity Level: {{ .Complexity }}

` + detailedSteps

const estimateText = detailedText + `
If the total time estimate is unrealistic for the breakdown, add a line starting with "Warning:" explaining why.`

const simpleText = `Task: {{ .Name }}
Description: {{ .Description }}
Effort Level: {{ .Effort }}
Complexity Level: {{ .Complexity }} (1-10)

Break this task into actionable steps.`

var builtinTemplates = []model.PromptTemplate{
	{
		Name:              TemplateDetailed,
		SystemPrompt:      DefaultSystemPrompt,
		Text:              detailedText,
		IncludeTotalHours: true,
		MaxTokens:         800,
	},
	{
		Name:              TemplateEstimate,
		SystemPrompt:      DefaultSystemPrompt,
		Text:              estimateText,
		IncludeTotalHours: true,
		MaxTokens:         800,
		Caution:           true,
	},
	{
		Name:         TemplateSimple,
		SystemPrompt: DefaultSystemPrompt,
		Text:         simpleText,
		MaxTokens:    500,
	},
}

// Templates returns the built-in prompt templates.
func Templates() []model.PromptTemplate {
	ts := make([]model.PromptTemplate, len(builtinTemplates))
	copy(ts, builtinTemplates)
	return ts
}

// Template returns a built-in template by name.
func Template(name string) (model.PromptTemplate, error) {
	for _, t := range builtinTemplates {
		if t.Name == name {
			return t, nil
		}
	}
	return model.PromptTemplate{}, fmt.Errorf("template %q: %w", name, model.ErrNotFound)
}
