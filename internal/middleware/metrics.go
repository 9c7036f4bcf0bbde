package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/internal/metrics"
)

// MetricsInterceptor records RPC latency by procedure and result code.
func MetricsInterceptor(recorder *metrics.Recorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			recorder.ObserveRPC(req.Spec().Procedure, code, time.Since(start))
			return resp, err
		}
	}
}
