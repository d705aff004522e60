package app

import (
	"context"
	"testing"
	"time"

	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestNew_InvalidConfig(t *testing.T) {
	t.Setenv("ROCOCO_MEDIA_BACKEND", "floppy")
	_, _, err := New(config.RoleArtist)
	assert.ErrorContains(t, err, "invalid media backend")
}

func TestMediaStore_Inline(t *testing.T) {
	t.Setenv("ROCOCO_LOG_LEVEL", "error")
	a, _, err := New(config.RoleArtist)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown.Shutdown() })

	store, err := a.MediaStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, media.InlineStore{}, store)
}

func TestServeGRPC_StopsOnCancel(t *testing.T) {
	t.Setenv("ROCOCO_LOG_LEVEL", "error")
	t.Setenv("ROCOCO_HOST", "127.0.0.1")
	t.Setenv("ROCOCO_PORT", "0")
	a, _, err := New(config.RoleGeo)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	registered := false
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.ServeGRPC(ctx, func(grpc.ServiceRegistrar) { registered = true })
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
		assert.True(t, registered)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
