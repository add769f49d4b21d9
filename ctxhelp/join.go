// ctxhelp joins the lifetime of a server with the lifetime of a session.
package ctxhelp

import "context"

// Join returns a context that is canceled as soon as either parent is done.
// Its cause is the error of the parent that finished first. Values are
// looked up in ctx1.
func Join(ctx1, ctx2 context.Context) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(ctx1)

	stop := context.AfterFunc(ctx2, func() {
		cancel(context.Cause(ctx2))
	})
	context.AfterFunc(ctx, func() { stop() })

	return ctx, cancel
}
