package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskbreak/internal/model"
)

func TestParseProvider(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    model.Provider
		expErr bool
	}{
		"OpenAI should parse.":          {in: "openai", exp: model.ProviderOpenAI},
		"Uppercase should parse.":       {in: "ANTHROPIC", exp: model.ProviderAnthropic},
		"Fake should parse.":            {in: "fake", exp: model.ProviderFake},
		"Unknown provider should fail.": {in: "bedrock", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := model.ParseProvider(test.in)
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, got)
		})
	}
}

func TestProviderProperties(t *testing.T) {
	for _, p := range model.Providers() {
		assert.NotEmpty(t, p.DefaultModel(), "provider %s should have a default model", p)
	}

	assert.Equal(t, "gpt-4", model.ProviderOpenAI.DefaultModel())
	assert.True(t, model.ProviderOpenAI.RequiresAPIKey())
	assert.False(t, model.ProviderOllama.RequiresAPIKey())
	assert.False(t, model.ProviderFake.RequiresAPIKey())
	assert.Equal(t, "OPENAI_API_KEY", model.ProviderOpenAI.APIKeyEnvVar())
	assert.Empty(t, model.ProviderFake.APIKeyEnvVar())
}
