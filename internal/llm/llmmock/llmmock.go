// Package llmmock has testify mocks for the llm package interfaces.
package llmmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/taskbreak/internal/model"
)

// Completer is a mock of llm.Completer.
type Completer struct {
	mock.Mock
}

// Complete mocks llm.Completer.Complete.
func (m *Completer) Complete(ctx context.Context, req model.CompletionRequest) (*model.Completion, error) {
	args := m.Called(ctx, req)

	var c *model.Completion
	if v := args.Get(0); v != nil {
		c = v.(*model.Completion)
	}
	return c, args.Error(1)
}
