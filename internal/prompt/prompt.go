package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/slok/taskbreak/internal/model"
)

// BuilderConfig is the configuration for the prompt builder.
type BuilderConfig struct {
	Template model.PromptTemplate
}

func (c *BuilderConfig) defaults() error {
	if c.Template.Name == "" {
		t, err := Template(DefaultTemplateName)
		if err != nil {
			return err
		}
		c.Template = t
	}

	if err := c.Template.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	return nil
}

// Builder renders task requests into prompts.
type Builder struct {
	tpl  model.PromptTemplate
	tmpl *template.Template
}

// NewBuilder returns a new prompt builder. The template text is parsed once.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tmpl, err := template.New(cfg.Template.Name).Option("missingkey=error").Parse(cfg.Template.Text)
	if err != nil {
		return nil, fmt.Errorf("could not parse %q template: %w: %w", cfg.Template.Name, err, model.ErrNotValid)
	}

	return &Builder{
		tpl:  cfg.Template,
		tmpl: tmpl,
	}, nil
}

// Template returns the template used by the builder.
func (b *Builder) Template() model.PromptTemplate { return b.tpl }

type templateData struct {
	Name          string
	Description   string
	Effort        string
	Complexity    int
	HasTotalHours bool
	TotalHours    string
}

// Build renders the prompt for a task request. The request is expected to be validated.
func (b *Builder) Build(req model.TaskRequest) (string, error) {
	data := templateData{
		Name:        req.Name,
		Description: req.Description,
		Effort:      string(req.Effort),
		Complexity:  req.Complexity,
	}
	if b.tpl.IncludeTotalHours && req.TotalHours != nil {
		data.HasTotalHours = true
		data.TotalHours = FormatHours(*req.TotalHours)
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("could not render %q template: %w", b.tpl.Name, err)
	}

	p := sb.String()
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%q template rendered an empty prompt: %w", b.tpl.Name, model.ErrNotValid)
	}

	return p, nil
}

// FormatHours formats hours keeping at least one decimal (2 -> "2.0", 1.25 -> "1.25").
func FormatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
