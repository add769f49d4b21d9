package ctxhelp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	errSession := errors.New("session closed")

	t.Run("first parent", func(t *testing.T) {
		server, stopServer := context.WithCancel(t.Context())
		ctx, cancel := Join(server, t.Context())
		defer cancel(nil)

		stopServer()
		<-ctx.Done()
		assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
	})

	t.Run("second parent", func(t *testing.T) {
		sess, stopSess := context.WithCancelCause(t.Context())
		ctx, cancel := Join(t.Context(), sess)
		defer cancel(nil)

		stopSess(errSession)
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("joined context was not canceled")
		}
		assert.ErrorIs(t, context.Cause(ctx), errSession)
	})

	t.Run("canceled directly", func(t *testing.T) {
		ctx, cancel := Join(t.Context(), t.Context())
		cancel(errSession)
		require.ErrorIs(t, context.Cause(ctx), errSession)
	})
}
