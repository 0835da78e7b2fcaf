package mirror

import (
	"context"

	"github.com/broady/mirror/ir"
)

type contextKey struct {
	name string
}

var callKey = &contextKey{"call"}

// CallFromContext returns the invocation in progress. The context of every
// Call carries the Call itself, so interceptors and the code they invoke
// can recover it.
func CallFromContext(ctx context.Context) (*Call, bool) {
	c, ok := ctx.Value(callKey).(*Call)
	return c, ok
}

// MemberFromContext returns the member being invoked.
func MemberFromContext(ctx context.Context) (ir.Member, bool) {
	if c, ok := CallFromContext(ctx); ok {
		return c.Member, true
	}
	return nil, false
}

func newContext(ctx context.Context, call *Call) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callKey, call)
}
