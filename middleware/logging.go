// Package middleware provides interceptors for mirror invokers.
package middleware

import (
	"log/slog"
	"time"

	"github.com/broady/mirror"
)

// LoggingInterceptor creates an interceptor that logs member invocations
// using slog. It logs the start and end of each call, including duration
// and error status.
func LoggingInterceptor(logger *slog.Logger) mirror.Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(call *mirror.Call, next mirror.CallFunc) (any, error) {
		ctx := call.Context()
		start := time.Now()

		logger.InfoContext(ctx, "invocation started",
			slog.String("member", call.MemberID()),
			slog.Int("args", len(call.Args)),
		)

		res, err := next(call)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "invocation failed",
				slog.String("member", call.MemberID()),
				slog.Duration("duration", duration),
				slog.String("code", string(mirror.CodeOf(err))),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "invocation completed",
				slog.String("member", call.MemberID()),
				slog.Duration("duration", duration),
			)
		}

		return res, err
	}
}
