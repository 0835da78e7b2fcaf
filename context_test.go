package mirror

import (
	"context"
	"testing"

	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/testutil"
)

func TestCallFromContext(t *testing.T) {
	inv, dir, acc := newAccountInvoker(t)
	balance := mustMethod(t, dir, acc.Account, "balance")

	var fromCtx *Call
	var member ir.Member
	inv.WithInterceptor(func(call *Call, next CallFunc) (any, error) {
		fromCtx, _ = CallFromContext(call.Context())
		member, _ = MemberFromContext(call.Context())
		return next(call)
	})

	if _, err := inv.Invoke(&testutil.Account{}, balance); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if fromCtx == nil || fromCtx.Member != ir.Member(balance) {
		t.Errorf("CallFromContext = %v, want the active call", fromCtx)
	}
	if member != ir.Member(balance) {
		t.Errorf("MemberFromContext = %v, want balance", member)
	}
}

func TestCallFromContext_Missing(t *testing.T) {
	ctx := context.Background()
	if c, ok := CallFromContext(ctx); ok || c != nil {
		t.Errorf("CallFromContext(background) = %v, %v", c, ok)
	}
	if m, ok := MemberFromContext(ctx); ok || m != nil {
		t.Errorf("MemberFromContext(background) = %v, %v", m, ok)
	}
}
