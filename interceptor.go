package mirror

import (
	"context"

	"github.com/broady/mirror/ir"
)

// Call describes one dispatch in progress. Args are already adapted to the
// member's declared parameters.
type Call struct {
	ctx context.Context

	Target any
	Member ir.Member
	Args   []any
}

// Context returns the context the invocation was started with.
func (c *Call) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// MemberID returns the identity of the member being invoked, e.g.
// "bank.Account.deposit(long, String, boolean)".
func (c *Call) MemberID() string {
	return ir.Identity(c.Member)
}

// CallFunc represents the next step in an interceptor chain.
type CallFunc func(call *Call) (any, error)

// Interceptor is a hook that wraps member dispatch.
//
//	func timing(call *mirror.Call, next mirror.CallFunc) (any, error) {
//	    start := time.Now()
//	    res, err := next(call)
//	    log.Printf("%s took %v", call.MemberID(), time.Since(start))
//	    return res, err
//	}
//
// Interceptors can:
//   - Inspect or replace the adapted arguments before calling next
//   - Inspect or replace the result after calling next
//   - Short-circuit by returning an error without calling next
type Interceptor func(call *Call, next CallFunc) (any, error)

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(call *Call, final CallFunc) (any, error) {
		// Chain: i[0] -> i[1] -> ... -> final
		chain := final
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(call *Call) (any, error) {
				return current(call, next)
			}
		}
		return chain(call)
	}
}
