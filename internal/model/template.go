package model

import "fmt"

// PromptTemplate is the parametrization of a prompt sent to the LLM.
type PromptTemplate struct {
	Name         string
	SystemPrompt string
	// Text is a Go text/template body.
	Text              string
	IncludeTotalHours bool
	MaxTokens         int
	// Caution enables the "warning" heuristic on the responses.
	Caution bool
}

// Validate validates the prompt template.
func (p PromptTemplate) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("template name is required: %w", ErrNotValid)
	}
	if p.SystemPrompt == "" {
		return fmt.Errorf("template system prompt is required: %w", ErrNotValid)
	}
	if p.Text == "" {
		return fmt.Errorf("template text is required: %w", ErrNotValid)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("template max tokens must be positive, got: %d: %w", p.MaxTokens, ErrNotValid)
	}
	return nil
}
