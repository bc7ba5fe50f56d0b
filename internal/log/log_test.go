package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/taskbreak/internal/log"
)

func TestCtxValues(t *testing.T) {
	tests := map[string]struct {
		ctx       func() context.Context
		expValues log.Kv
	}{
		"A context without values should return empty values.": {
			ctx:       context.Background,
			expValues: log.Kv{},
		},

		"A context with values should return them.": {
			ctx: func() context.Context {
				return log.CtxWithValues(context.Background(), log.Kv{"a": 1})
			},
			expValues: log.Kv{"a": 1},
		},

		"Nested values should be merged and the latest should win.": {
			ctx: func() context.Context {
				ctx := log.CtxWithValues(context.Background(), log.Kv{"a": 1, "b": 2})
				return log.CtxWithValues(ctx, log.Kv{"b": 3, "c": 4})
			},
			expValues: log.Kv{"a": 1, "b": 3, "c": 4},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expValues, log.ValuesFromCtx(test.ctx()))
		})
	}
}

func TestNoopLogger(t *testing.T) {
	ctx := context.Background()
	l := log.Noop.WithValues(log.Kv{"k": "v"}).WithCtxValues(ctx)
	l.Infof("test %s", "info")

	assert.Equal(t, ctx, l.SetValuesOnCtx(ctx, log.Kv{"k": "v"}))
}
