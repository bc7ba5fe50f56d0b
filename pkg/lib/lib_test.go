package lib_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskbreak/pkg/lib"
)

func hours(h float64) *float64 { return &h }

func newTestClient(t *testing.T, template string) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{
		Provider: lib.ProviderFake,
		Template: template,
	})
	require.NoError(t, err)

	return client
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg    lib.Config
		env    map[string]string
		expIs  error
		expErr bool
	}{
		"The fake provider should not need an API key.": {
			cfg: lib.Config{Provider: lib.ProviderFake},
		},

		"Ollama should not need an API key.": {
			cfg: lib.Config{Provider: lib.ProviderOllama},
		},

		"OpenAI with an API key should work.": {
			cfg: lib.Config{Provider: lib.ProviderOpenAI, APIKey: "sk-test"},
		},

		"The API key should be read from the environment.": {
			cfg: lib.Config{Provider: lib.ProviderAnthropic},
			env: map[string]string{"ANTHROPIC_API_KEY": "sk-ant"},
		},

		"A missing API key should fail.": {
			cfg:    lib.Config{Provider: lib.ProviderGemini},
			env:    map[string]string{"GEMINI_API_KEY": "", "TASKBREAK_API_KEY": ""},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"An unknown provider should fail.": {
			cfg:    lib.Config{Provider: "bedrock"},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"An unknown template should fail.": {
			cfg:    lib.Config{Provider: lib.ProviderFake, Template: "fancy"},
			expErr: true,
			expIs:  lib.ErrNotFound,
		},

		"No timeout should be accepted.": {
			cfg: lib.Config{Provider: lib.ProviderFake, Timeout: 0},
		},

		"A negative timeout should fail.": {
			cfg:    lib.Config{Provider: lib.ProviderFake, Timeout: -time.Second},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"An invalid base URL should fail.": {
			cfg:    lib.Config{Provider: lib.ProviderOllama, BaseURL: "localhost"},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			client, err := lib.New(context.Background(), test.cfg)
			if test.expErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, test.expIs)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestClientBreakdown(t *testing.T) {
	tests := map[string]struct {
		req    lib.TaskRequest
		expErr bool
		expIs  error
	}{
		"A valid task should be broken down.": {
			req: lib.TaskRequest{
				Name:        "Clean the house",
				Description: "Deep clean kitchen and bathrooms",
				Effort:      lib.EffortMedium,
				Complexity:  3,
				TotalHours:  hours(2),
			},
		},

		"Optional fields should get the defaults.": {
			req: lib.TaskRequest{Name: "Clean the house", Description: "Deep clean"},
		},

		"A blank name should fail.": {
			req:    lib.TaskRequest{Name: "  ", Description: "Deep clean"},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},

		"An out of range complexity should fail.": {
			req:    lib.TaskRequest{Name: "n", Description: "d", Complexity: 42},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, "")

			b, err := client.Breakdown(context.Background(), test.req)
			if test.expErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, test.expIs)
				assert.Nil(t, b)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, b.ID)
			assert.True(t, strings.HasPrefix(b.Text, "### Step 1"))
			assert.Equal(t, "fake", b.Provider)
			assert.Equal(t, "detailed", b.Template)
			assert.False(t, b.Caution)
		})
	}
}

func TestClientBreakdownCancelledContext(t *testing.T) {
	client := newTestClient(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Breakdown(ctx, lib.TaskRequest{Name: "n", Description: "d"})
	assert.ErrorIs(t, err, lib.ErrCompletion)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientPrompt(t *testing.T) {
	client := newTestClient(t, "estimate")

	p, err := client.Prompt(lib.TaskRequest{
		Name:        "Clean the house",
		Description: "Deep clean kitchen and bathrooms",
		TotalHours:  hours(2),
	})
	require.NoError(t, err)
	assert.Contains(t, p, "Clean the house")
	assert.Contains(t, p, "2.0 hours")
	assert.Contains(t, p, "Medium")

	_, err = client.Prompt(lib.TaskRequest{Name: "n"})
	assert.ErrorIs(t, err, lib.ErrNotValid)
}

func TestTemplates(t *testing.T) {
	tpls := lib.Templates()

	names := []string{}
	for _, t := range tpls {
		names = append(names, t.Name)
	}
	assert.ElementsMatch(t, []string{"detailed", "estimate", "simple"}, names)

	client := newTestClient(t, "simple")
	assert.Equal(t, "simple", client.Template().Name)
	assert.False(t, client.Template().IncludeTotalHours)
}

func TestClientDoctor(t *testing.T) {
	client := newTestClient(t, "")

	results := client.Doctor(context.Background())
	require.NotEmpty(t, results)

	ids := map[string]lib.CheckStatus{}
	for _, r := range results {
		ids[r.ID] = r.Status
	}
	assert.Equal(t, lib.CheckStatusWarning, ids["provider"])
	assert.Equal(t, lib.CheckStatusOK, ids["api_key"])
	assert.Equal(t, lib.CheckStatusOK, ids["template"])
}
