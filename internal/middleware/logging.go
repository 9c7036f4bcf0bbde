package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, actor, duration and result code. Install it inside the
// auth interceptor so the actor is known.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			actor, _ := ActorFromContext(ctx) // zero if pre-auth

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", procedure,
				"user_id", actor.UserID,
				"org_id", actor.OrgID,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			var connectErr *connect.Error
			switch {
			case err == nil:
				logger.InfoContext(ctx, "RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown:
				logger.WarnContext(ctx, "RPC error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
			default:
				logger.ErrorContext(ctx, "RPC error", append(attrs, "code", connect.CodeOf(err), "error", err)...)
			}

			return resp, err
		}
	}
}
