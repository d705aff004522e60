package rpc

import (
	"context"
	"time"

	"github.com/platinummonkey/rococo/pkg/contextkeys"
	"github.com/platinummonkey/rococo/pkg/observability"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDMetadataKey carries the gateway request id to the backends
const RequestIDMetadataKey = "x-request-id"

// RecoveryInterceptor turns handler panics into Internal statuses
func RecoveryInterceptor(logger *observability.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(map[string]interface{}{
					"method": info.FullMethod,
					"panic":  r,
				}).Error("panic in gRPC handler")
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// ServerLoggingInterceptor puts a request-scoped logger in the context and
// logs every call with its status code
func ServerLoggingInterceptor(logger *observability.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDMetadataKey); len(ids) > 0 {
				ctx = contextkeys.WithRequestID(ctx, ids[0])
			}
		}
		ctx = observability.WithLogger(ctx, logger)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		entry := observability.FromContext(ctx).WithFields(map[string]interface{}{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch code {
		case codes.OK:
			entry.Debug("gRPC call")
		case codes.Internal, codes.Unknown, codes.DataLoss:
			entry.WithError(err).Error("gRPC call failed")
		default:
			entry.WithError(err).Info("gRPC call rejected")
		}
		return resp, err
	}
}

// ServerMetricsInterceptor counts and times calls on the server side
func ServerMetricsInterceptor(metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observeCall(metrics, "server", info.FullMethod, start, err)
		return resp, err
	}
}

// ClientInterceptor propagates the request id, bounds the call with a
// timeout and records client metrics
func ClientInterceptor(metrics *observability.Metrics, timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if requestID := contextkeys.GetRequestID(ctx); requestID != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, RequestIDMetadataKey, requestID)
		}
		if _, ok := ctx.Deadline(); !ok && timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		observeCall(metrics, "client", method, start, err)
		return err
	}
}

func observeCall(metrics *observability.Metrics, side, method string, start time.Time, err error) {
	if metrics == nil {
		return
	}
	metrics.RPCCallsTotal.WithLabelValues(side, method, status.Code(err).String()).Inc()
	metrics.RPCCallDuration.WithLabelValues(side, method).Observe(time.Since(start).Seconds())
}
