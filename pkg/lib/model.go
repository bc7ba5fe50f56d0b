package lib

import (
	"errors"
	"time"

	"github.com/slok/taskbreak/internal/model"
)

// Errors returned by the SDK, use [errors.Is] to check them.
var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
	// ErrCompletion is returned when the LLM provider call fails.
	ErrCompletion = errors.New("completion failed")
)

// Provider is the LLM API provider.
type Provider string

const (
	ProviderOpenAI    Provider = Provider(model.ProviderOpenAI)
	ProviderAnthropic Provider = Provider(model.ProviderAnthropic)
	ProviderOllama    Provider = Provider(model.ProviderOllama)
	ProviderGemini    Provider = Provider(model.ProviderGemini)
	ProviderFake      Provider = Provider(model.ProviderFake)
)

// EffortLevel is the estimated effort of a task.
type EffortLevel string

const (
	EffortLow    EffortLevel = EffortLevel(model.EffortLow)
	EffortMedium EffortLevel = EffortLevel(model.EffortMedium)
	EffortHigh   EffortLevel = EffortLevel(model.EffortHigh)
)

// --- Breakdown types ---

// TaskRequest is the task to break down.
type TaskRequest struct {
	// Name is required, blank names are not valid.
	Name string
	// Description is required, blank descriptions are not valid.
	Description string
	// Effort defaults to [EffortMedium], it's case insensitive.
	Effort EffortLevel
	// Complexity is the number of steps to break the task into (1-10), defaults to 3.
	Complexity int
	// TotalHours is the user time estimate, optional.
	TotalHours *float64
}

// Breakdown is the result of a task breakdown.
type Breakdown struct {
	// ID identifies the submission on the logs.
	ID string
	// Text is the model answer (markdown) with the surrounding whitespace trimmed.
	Text string
	// Caution is set when the answer flags the time estimate.
	Caution bool
	// CautionMessage is the message to show to the user when Caution is set.
	CautionMessage string
	Provider       string
	Model          string
	Template       string
	Duration       time.Duration
}

// --- Template types ---

// Template is a prompt template.
type Template struct {
	Name              string
	SystemPrompt      string
	Text              string
	IncludeTotalHours bool
	MaxTokens         int
	Caution           bool
}

// --- Doctor types ---

// CheckStatus represents the status of a preflight check.
type CheckStatus string

const (
	// CheckStatusOK indicates the check passed.
	CheckStatusOK CheckStatus = "ok"
	// CheckStatusWarning indicates the check passed with a warning.
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError indicates the check failed.
	CheckStatusError CheckStatus = "error"
)

// CheckResult represents the result of a single preflight check.
type CheckResult struct {
	// ID is a unique identifier for the check (e.g. "api_key").
	ID string
	// Message is a human-readable description of the result.
	Message string
	// Status is the check status.
	Status CheckStatus
}

// --- Internal conversion helpers ---

func toInternalTaskRequest(r TaskRequest) model.TaskRequest {
	t := model.TaskRequest{
		Name:        r.Name,
		Description: r.Description,
		Effort:      model.EffortLevel(r.Effort),
		Complexity:  r.Complexity,
	}
	if e, err := model.ParseEffortLevel(string(r.Effort)); err == nil {
		t.Effort = e
	}
	if r.TotalHours != nil {
		h := *r.TotalHours
		t.TotalHours = &h
	}
	t.Defaults()
	return t
}

func fromInternalSubmission(s model.Submission) *Breakdown {
	if s.Breakdown == nil {
		return nil
	}

	return &Breakdown{
		ID:             s.ID,
		Text:           s.Breakdown.Text,
		Caution:        s.Breakdown.Caution,
		CautionMessage: s.Breakdown.CautionMessage,
		Provider:       s.Breakdown.Provider,
		Model:          s.Breakdown.Model,
		Template:       s.Breakdown.Template,
		Duration:       s.Duration(),
	}
}

func fromInternalTemplate(t model.PromptTemplate) Template {
	return Template{
		Name:              t.Name,
		SystemPrompt:      t.SystemPrompt,
		Text:              t.Text,
		IncludeTotalHours: t.IncludeTotalHours,
		MaxTokens:         t.MaxTokens,
		Caution:           t.Caution,
	}
}

func fromInternalCheckResults(rs []model.CheckResult) []CheckResult {
	results := make([]CheckResult, 0, len(rs))
	for _, r := range rs {
		results = append(results, CheckResult{
			ID:      r.ID,
			Message: r.Message,
			Status:  CheckStatus(r.Status),
		})
	}
	return results
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	case errors.Is(err, model.ErrCompletion):
		return joinErrors(err, ErrCompletion)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
