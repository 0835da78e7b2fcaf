package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/mirror"
	"github.com/broady/mirror/testutil"
)

func newLoggedInvoker(t *testing.T, buf *bytes.Buffer) (*mirror.Invoker, *mirror.Directory, *testutil.Accounts) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	acc := testutil.NewAccounts()
	dir := mirror.NewDirectory(acc.Registry)
	inv := mirror.NewInvoker(dir).WithLogger(logger).WithInterceptor(LoggingInterceptor(logger))
	return inv, dir, acc
}

func TestLoggingInterceptor_Success(t *testing.T) {
	var buf bytes.Buffer
	inv, _, acc := newLoggedInvoker(t, &buf)

	result, err := inv.Call(&testutil.Account{Balance: 9}, acc.Account, "balance")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != int64(9) {
		t.Errorf("expected 9, got %v", result)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "invocation started") {
		t.Error("expected 'invocation started' in log output")
	}
	if !strings.Contains(logOutput, "invocation completed") {
		t.Error("expected 'invocation completed' in log output")
	}
	if !strings.Contains(logOutput, "bank.Account.balance()") {
		t.Error("expected member identity in log output")
	}
}

func TestLoggingInterceptor_Error(t *testing.T) {
	var buf bytes.Buffer
	inv, _, acc := newLoggedInvoker(t, &buf)

	result, err := inv.Call(&testutil.Account{}, acc.Account, "fail")
	if !errors.Is(err, testutil.ErrAccountFailure) {
		t.Errorf("expected account failure, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "invocation started") {
		t.Error("expected 'invocation started' in log output")
	}
	if !strings.Contains(logOutput, "invocation failed") {
		t.Error("expected 'invocation failed' in log output")
	}
	if !strings.Contains(logOutput, `"code":"invocation_failed"`) {
		t.Error("expected error code in log output")
	}
	if strings.Contains(logOutput, "invocation completed") {
		t.Error("did not expect 'invocation completed' in log output")
	}
}

func TestLoggingInterceptor_NilLogger(t *testing.T) {
	if LoggingInterceptor(nil) == nil {
		t.Fatal("expected an interceptor with the default logger")
	}
}
