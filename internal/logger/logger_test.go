package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	t.Run("Production", func(t *testing.T) {
		Init("prod")
		assert.NotNil(t, log)
	})

	t.Run("Development", func(t *testing.T) {
		Init("dev")
		assert.NotNil(t, log)
	})
}

func TestL_LazyInit(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	log = nil
	t.Setenv("GO_ENV", "test")

	assert.NotNil(t, L())
	assert.NotNil(t, log)
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "", RequestIDFrom(ctx))
	_, ok := CustomerIDFrom(ctx)
	assert.False(t, ok)

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCustomerID(ctx, 42)

	assert.Equal(t, "req-1", RequestIDFrom(ctx))
	id, ok := CustomerIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestFromCtx(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	t.Run("WithIDs", func(t *testing.T) {
		ctx := WithCustomerID(WithRequestID(context.Background(), "req-abc"), 7)
		FromCtx(ctx).Info("hello")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-abc", fields["request_id"])
		assert.Equal(t, int64(7), fields["customer_id"])
	})

	t.Run("WithoutIDs", func(t *testing.T) {
		FromCtx(context.Background()).Info("bare")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		_, ok := logs[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, Sync)
}
