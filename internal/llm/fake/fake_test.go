package fake_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskbreak/internal/llm/fake"
	"github.com/slok/taskbreak/internal/model"
)

func TestCompleterComplete(t *testing.T) {
	tests := map[string]struct {
		cfg     fake.CompleterConfig
		ctx     func() context.Context
		expText string
		expErr  bool
	}{
		"Default config should answer the default response.": {
			cfg:     fake.CompleterConfig{},
			ctx:     context.Background,
			expText: fake.DefaultResponse,
		},

		"A custom response should be trimmed.": {
			cfg:     fake.CompleterConfig{Response: "  Step 1: ...\n"},
			ctx:     context.Background,
			expText: "Step 1: ...",
		},

		"A configured error should be a completion error.": {
			cfg:    fake.CompleterConfig{Err: errors.New("boom")},
			ctx:    context.Background,
			expErr: true,
		},

		"A cancelled context should fail.": {
			cfg: fake.CompleterConfig{},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := fake.NewCompleter(test.cfg)
			require.NoError(t, err)

			got, err := c.Complete(test.ctx(), model.CompletionRequest{Prompt: "p"})
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrCompletion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expText, got.Text)
			assert.Equal(t, "fake", got.Provider)
		})
	}
}
