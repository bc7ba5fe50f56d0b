package model

import (
	"fmt"
	"net/url"
)

// Credentials are the credentials used to call the LLM API.
type Credentials struct {
	APIKey string
	// BaseURL overrides the provider default endpoint (optional).
	BaseURL string
}

// Validate validates the credentials. The API key is only checked when required.
func (c Credentials) Validate(requireKey bool) error {
	if requireKey && c.APIKey == "" {
		return fmt.Errorf("api key is required: %w", ErrNotValid)
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q is not a valid URL: %w", c.BaseURL, ErrNotValid)
		}
	}

	return nil
}

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
}

// Completion is the first candidate returned by the LLM API.
type Completion struct {
	// Text is the candidate content with the surrounding whitespace trimmed.
	Text     string
	Provider string
	Model    string
}
