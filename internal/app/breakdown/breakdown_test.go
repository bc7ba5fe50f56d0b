package breakdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/llm/llmmock"
	"github.com/slok/taskbreak/internal/log"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/prompt"
	"github.com/slok/taskbreak/internal/render"
)

func hours(h float64) *float64 { return &h }

func cleanHouse() model.TaskRequest {
	return model.TaskRequest{
		Name:        "Clean the house",
		Description: "Deep clean kitchen and bathrooms",
		Effort:      model.EffortMedium,
		Complexity:  3,
		TotalHours:  hours(2.0),
	}
}

func mustTemplate(t *testing.T, name string) model.PromptTemplate {
	tpl, err := prompt.Template(name)
	require.NoError(t, err)
	return tpl
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		cfg    breakdown.ServiceConfig
		expErr bool
		errMsg string
	}{
		"Valid config with all fields": {
			cfg: breakdown.ServiceConfig{
				Completer: &llmmock.Completer{},
				Template:  model.PromptTemplate{Name: "custom", SystemPrompt: "s", Text: "{{ .Name }}", MaxTokens: 10},
				Logger:    log.Noop,
			},
		},
		"Valid config without template uses the default one": {
			cfg: breakdown.ServiceConfig{
				Completer: &llmmock.Completer{},
			},
		},
		"Missing completer returns error": {
			cfg:    breakdown.ServiceConfig{},
			expErr: true,
			errMsg: "completer is required",
		},
		"Invalid template returns error": {
			cfg: breakdown.ServiceConfig{
				Completer: &llmmock.Completer{},
				Template:  model.PromptTemplate{Name: "custom", SystemPrompt: "s", Text: "{{ .Name ", MaxTokens: 10},
			},
			expErr: true,
			errMsg: "could not create prompt builder",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := breakdown.NewService(tt.cfg)

			if tt.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, svc)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestServiceRun(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		template   string
		task       func() model.TaskRequest
		setupMocks func(c *llmmock.Completer)
		expErr     error
		expSub     func(t *testing.T, sub *model.Submission)
	}{
		"Clean the house should be broken down and shown verbatim without caution.": {
			template: prompt.TemplateEstimate,
			task:     cleanHouse,
			setupMocks: func(c *llmmock.Completer) {
				c.On("Complete", mock.Anything, mock.MatchedBy(func(r model.CompletionRequest) bool {
					for _, exp := range []string{"Clean the house", "Deep clean kitchen and bathrooms", "Medium", "3", "2.0"} {
						if !strings.Contains(r.Prompt, exp) {
							return false
						}
					}
					return r.SystemPrompt == prompt.DefaultSystemPrompt && r.MaxTokens == 800
				})).Once().Return(&model.Completion{Text: "Step 1: ...", Provider: "openai", Model: "gpt-4"}, nil)
			},
			expSub: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.SubmissionStateSucceeded, sub.State)
				require.NotNil(t, sub.Breakdown)
				assert.Equal(t, "Step 1: ...", sub.Breakdown.Text)
				assert.False(t, sub.Breakdown.Caution)
				assert.Empty(t, sub.Breakdown.CautionMessage)
				assert.Nil(t, sub.Failure)
				assert.Contains(t, sub.Prompt, "Total Time Estimate: 2.0 hours")
			},
		},

		"A warning in the response should set the caution.": {
			template: prompt.TemplateEstimate,
			task:     cleanHouse,
			setupMocks: func(c *llmmock.Completer) {
				c.On("Complete", mock.Anything, mock.Anything).Once().
					Return(&model.Completion{Text: "Step 1: ...\nWarning: reconsider your estimate"}, nil)
			},
			expSub: func(t *testing.T, sub *model.Submission) {
				require.NotNil(t, sub.Breakdown)
				assert.True(t, sub.Breakdown.Caution)
				assert.Equal(t, render.CautionMessage, sub.Breakdown.CautionMessage)
				assert.Equal(t, "Step 1: ...\nWarning: reconsider your estimate", sub.Breakdown.Text)
			},
		},

		"A warning with a template without caution should not set the caution.": {
			template: prompt.TemplateDetailed,
			task:     cleanHouse,
			setupMocks: func(c *llmmock.Completer) {
				c.On("Complete", mock.Anything, mock.Anything).Once().
					Return(&model.Completion{Text: "Warning: reconsider your estimate"}, nil)
			},
			expSub: func(t *testing.T, sub *model.Submission) {
				require.NotNil(t, sub.Breakdown)
				assert.False(t, sub.Breakdown.Caution)
			},
		},

		"Simple template should use its own token limit.": {
			template: prompt.TemplateSimple,
			task:     cleanHouse,
			setupMocks: func(c *llmmock.Completer) {
				c.On("Complete", mock.Anything, mock.MatchedBy(func(r model.CompletionRequest) bool {
					return r.MaxTokens == 500 && !strings.Contains(r.Prompt, "2.0")
				})).Once().Return(&model.Completion{Text: "Step 1"}, nil)
			},
			expSub: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.SubmissionStateSucceeded, sub.State)
			},
		},

		"Missing name should fail with validation and not call the LLM.": {
			template: prompt.TemplateDetailed,
			task: func() model.TaskRequest {
				r := cleanHouse()
				r.Name = ""
				return r
			},
			setupMocks: func(c *llmmock.Completer) {},
			expErr:     model.ErrNotValid,
			expSub: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.SubmissionStateFailed, sub.State)
				require.NotNil(t, sub.Failure)
				assert.Equal(t, model.FailureKindValidation, sub.Failure.Kind)
				assert.Nil(t, sub.Breakdown)
				assert.Empty(t, sub.Prompt)
			},
		},

		"Whitespace description should fail with validation and not call the LLM.": {
			template: prompt.TemplateDetailed,
			task: func() model.TaskRequest {
				r := cleanHouse()
				r.Description = "   "
				return r
			},
			setupMocks: func(c *llmmock.Completer) {},
			expErr:     model.ErrNotValid,
			expSub: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.FailureKindValidation, sub.Failure.Kind)
			},
		},

		"A remote failure should be returned as a failed submission.": {
			template: prompt.TemplateDetailed,
			task:     cleanHouse,
			setupMocks: func(c *llmmock.Completer) {
				c.On("Complete", mock.Anything, mock.Anything).Once().
					Return(nil, errors.New("connection refused"))
			},
			expErr: model.ErrCompletion,
			expSub: func(t *testing.T, sub *model.Submission) {
				assert.Equal(t, model.SubmissionStateFailed, sub.State)
				require.NotNil(t, sub.Failure)
				assert.Equal(t, model.FailureKindRemote, sub.Failure.Kind)
				assert.Contains(t, sub.Failure.Message, "connection refused")
				assert.NotEmpty(t, sub.Prompt)
				assert.Nil(t, sub.Breakdown)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mc := &llmmock.Completer{}
			test.setupMocks(mc)

			svc, err := breakdown.NewService(breakdown.ServiceConfig{
				Completer: mc,
				Template:  mustTemplate(t, test.template),
				IDGen:     func() string { return "01TEST" },
				Now:       func() time.Time { return t0 },
			})
			require.NoError(err)

			sub, err := svc.Run(context.Background(), breakdown.Request{Task: test.task()})

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}

			require.NotNil(sub)
			assert.Equal("01TEST", sub.ID)
			assert.True(sub.State.Terminal())
			assert.True(sub.State.CanTransitionTo(model.SubmissionStateAwaiting))
			assert.Equal(t0, sub.StartedAt)
			test.expSub(t, sub)

			mc.AssertExpectations(t)
			if test.expErr == model.ErrNotValid {
				mc.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestServiceRunIsReusableAfterFailure(t *testing.T) {
	mc := &llmmock.Completer{}
	mc.On("Complete", mock.Anything, mock.Anything).Once().Return(nil, errors.New("timeout"))
	mc.On("Complete", mock.Anything, mock.Anything).Once().Return(&model.Completion{Text: "Step 1: ..."}, nil)

	svc, err := breakdown.NewService(breakdown.ServiceConfig{Completer: mc})
	require.NoError(t, err)

	sub, err := svc.Run(context.Background(), breakdown.Request{Task: cleanHouse()})
	assert.ErrorIs(t, err, model.ErrCompletion)
	assert.Equal(t, model.SubmissionStateFailed, sub.State)

	sub, err = svc.Run(context.Background(), breakdown.Request{Task: cleanHouse()})
	require.NoError(t, err)
	assert.Equal(t, "Step 1: ...", sub.Breakdown.Text)

	mc.AssertExpectations(t)
}
