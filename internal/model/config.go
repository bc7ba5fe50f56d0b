package model

import "time"

// AppConfig is the file based configuration of the application.
type AppConfig struct {
	Provider string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	// TemplateName selects a built-in template, ignored when Template is set.
	TemplateName string
	// Template is a custom prompt template.
	Template      *PromptTemplate
	ListenAddress string
}
