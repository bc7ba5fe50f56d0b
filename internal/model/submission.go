package model

import "time"

// SubmissionState is the state of a task breakdown submission.
type SubmissionState string

const (
	SubmissionStateAwaiting   SubmissionState = "awaiting_submission"
	SubmissionStateProcessing SubmissionState = "processing"
	SubmissionStateSucceeded  SubmissionState = "succeeded"
	SubmissionStateFailed     SubmissionState = "failed"
)

// Terminal returns true if the state ends a submission.
func (s SubmissionState) Terminal() bool {
	return s == SubmissionStateSucceeded || s == SubmissionStateFailed
}

var submissionTransitions = map[SubmissionState][]SubmissionState{
	SubmissionStateAwaiting:   {SubmissionStateProcessing},
	SubmissionStateProcessing: {SubmissionStateSucceeded, SubmissionStateFailed},
	SubmissionStateSucceeded:  {SubmissionStateAwaiting},
	SubmissionStateFailed:     {SubmissionStateAwaiting},
}

// CanTransitionTo returns true if a submission can move from s to next.
// Both terminal states go back to awaiting a new submission.
func (s SubmissionState) CanTransitionTo(next SubmissionState) bool {
	for _, st := range submissionTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// FailureKind classifies why a submission failed.
type FailureKind string

const (
	// FailureKindValidation is a missing or invalid field, detected before any remote call.
	FailureKindValidation FailureKind = "validation"
	// FailureKindRemote is a transport, authentication or malformed response failure.
	FailureKindRemote FailureKind = "remote"
)

// Failure is the reason a submission failed.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

// Breakdown is the result of a successful submission.
type Breakdown struct {
	// Text is the trimmed completion, it must be displayed verbatim.
	Text string
	// Caution is set when the response looks like it flags the time estimate.
	Caution        bool
	CautionMessage string
	Provider       string
	Model          string
	Template       string
}

// Submission is a single request/response pair. Submissions are never stored.
type Submission struct {
	ID         string
	State      SubmissionState
	Request    TaskRequest
	Prompt     string
	Breakdown  *Breakdown
	Failure    *Failure
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewSubmission returns a submission awaiting to be processed.
func NewSubmission(id string, req TaskRequest, startedAt time.Time) *Submission {
	return &Submission{
		ID:        id,
		State:     SubmissionStateAwaiting,
		Request:   req,
		StartedAt: startedAt,
	}
}

// Duration returns how long the submission took to reach a terminal state.
func (s Submission) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
