package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/platinummonkey/rococo/pkg/observability"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server is a backend gRPC server with the standard health service
type Server struct {
	GRPC   *grpc.Server
	Health *health.Server
	logger *observability.Logger
}

// NewServer builds a gRPC server with recovery, logging and metrics
// interceptors, and registers grpc.health.v1.Health
func NewServer(logger *observability.Logger, metrics *observability.Metrics, opts ...grpc.ServerOption) *Server {
	interceptors := []grpc.UnaryServerInterceptor{
		RecoveryInterceptor(logger),
		ServerLoggingInterceptor(logger),
	}
	if metrics != nil {
		interceptors = append(interceptors, ServerMetricsInterceptor(metrics))
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(interceptors...))

	s := &Server{
		GRPC:   grpc.NewServer(opts...),
		Health: health.NewServer(),
		logger: logger,
	}
	healthpb.RegisterHealthServer(s.GRPC, s.Health)
	return s
}

// SetServing marks every registered service as serving
func (s *Server) SetServing() {
	s.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for name := range s.GRPC.GetServiceInfo() {
		s.Health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
}

// Serve serves on lis until ctx is done, then stops gracefully.
// The server is forced down once stopTimeout elapses.
func (s *Server) Serve(ctx context.Context, lis net.Listener, stopTimeout time.Duration) error {
	s.SetServing()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
		serveErr <- s.GRPC.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	s.Health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		s.logger.Warn("graceful stop timed out, forcing")
		s.GRPC.Stop()
	}
	return nil
}

// Dial opens a client connection to a backend. Calls without a deadline
// are bounded by callTimeout.
func Dial(target string, metrics *observability.Metrics, callTimeout time.Duration, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(ClientInterceptor(metrics, callTimeout)),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}
