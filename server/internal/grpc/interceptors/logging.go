package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/ZzaizZ/goblog/internal/pkg/idgen"
)

// LoggingInterceptor logs every unary RPC with a generated request id
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	log := slog.Default().With(slog.String("component", "grpc"))
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		requestID := idgen.RequestID()

		resp, err := handler(ctx, req)

		attrs := []any{
			slog.String("request_id", requestID),
			slog.String("method", info.FullMethod),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs,
				slog.String("code", status.Code(err).String()),
				slog.String("error", err.Error()))
			log.Warn("rpc failed", attrs...)
		} else {
			log.Info("rpc handled", attrs...)
		}
		return resp, err
	}
}
