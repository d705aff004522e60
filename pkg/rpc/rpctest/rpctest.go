// Package rpctest runs Rococo gRPC services in-process over bufconn
package rpctest

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

// Serve starts an rpc.Server with the services added by register and
// returns a client connection to it. Both are closed on test cleanup.
func Serve(t testing.TB, metrics *observability.Metrics, register func(s grpc.ServiceRegistrar)) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := rpc.NewServer(observability.NewLogger(observability.ErrorLevel, io.Discard), metrics)
	register(srv.GRPC)
	srv.SetServing()
	go srv.GRPC.Serve(lis)
	t.Cleanup(srv.GRPC.Stop)

	conn, err := rpc.Dial("passthrough:///bufnet", metrics, 0,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}
