package model

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EffortLevel is the user estimated effort of a task.
type EffortLevel string

const (
	EffortLow    EffortLevel = "Low"
	EffortMedium EffortLevel = "Medium"
	EffortHigh   EffortLevel = "High"
)

// EffortLevels returns all the supported effort levels in ascending order.
func EffortLevels() []EffortLevel {
	return []EffortLevel{EffortLow, EffortMedium, EffortHigh}
}

// ParseEffortLevel parses a case-insensitive effort level.
func ParseEffortLevel(s string) (EffortLevel, error) {
	for _, e := range EffortLevels() {
		if strings.EqualFold(strings.TrimSpace(s), string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown effort level %q: %w", s, ErrNotValid)
}

const (
	// MinComplexity is the lowest complexity level a task can have.
	MinComplexity = 1
	// MaxComplexity is the highest complexity level a task can have.
	MaxComplexity = 10
	// DefaultComplexity is the complexity used when none is set.
	DefaultComplexity = 3
)

// TaskRequest is a single task breakdown submission. It only lives for the
// duration of one submission.
type TaskRequest struct {
	Name        string      `json:"name" validate:"notblank"`
	Description string      `json:"description" validate:"notblank"`
	Effort      EffortLevel `json:"effort" validate:"oneof=Low Medium High"`
	Complexity  int         `json:"complexity" validate:"min=1,max=10"`
	// TotalHours is the optional user estimate of the total time needed.
	TotalHours *float64 `json:"total_hours" validate:"omitempty,finite,gte=0"`
}

// Defaults sets the default values of the optional fields that have not been set.
func (t *TaskRequest) Defaults() {
	if t.Effort == "" {
		t.Effort = EffortMedium
	}
	if t.Complexity == 0 {
		t.Complexity = DefaultComplexity
	}
}

// Validate validates the task request. Name and description must have non
// whitespace content. Returns a *ValidationError.
func (t TaskRequest) Validate() error {
	err := validate().Struct(t)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("could not validate task request: %w", err)
	}

	vErr := &ValidationError{}
	for _, fe := range verrs {
		vErr.Fields = append(vErr.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldErrorMessage(fe),
		})
	}

	return vErr
}

const msgRequired = "is required"

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return msgRequired
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d", MinComplexity, MaxComplexity)
	case "finite":
		return "must be a finite number"
	case "gte":
		return "must be non-negative"
	default:
		return "is not valid"
	}
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func validate() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Use JSON names so errors match what the user filled.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		})

		validatorInst = v
	})

	return validatorInst
}
