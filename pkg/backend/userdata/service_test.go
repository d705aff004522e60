package userdata

import (
	"context"
	"testing"

	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUserdataService_GetCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	svc := NewService(repo, nil)

	user, err := svc.GetUser(ctx, &rpc.UsernameRequest{Username: "duck"})
	require.NoError(t, err)
	assert.Equal(t, "duck", user.Username)

	stored, err := repo.FindByUsername(ctx, "duck")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestUserdataService_RegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewUserRepository(), nil)

	first, err := svc.Register(ctx, "duck")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "duck")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUserdataService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewUserRepository(), nil)

	_, err := svc.CreateUser(ctx, &model.User{Username: "duck"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, &model.User{Username: "duck"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestUserdataService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewUserRepository(), nil)

	_, err := svc.UpdateUser(ctx, &model.User{Username: "duck", Firstname: "Donald", Avatar: "data:image/png;base64,AAAA"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, &model.User{Username: "duck", Firstname: "Donald", Lastname: "Duck"})
	require.NoError(t, err)
	assert.Equal(t, "Duck", updated.Lastname)
	assert.Equal(t, "data:image/png;base64,AAAA", updated.Avatar)
}

func TestUserdataService_RequiresUsername(t *testing.T) {
	svc := NewService(memory.NewUserRepository(), nil)

	_, err := svc.GetUser(context.Background(), &rpc.UsernameRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = svc.UpdateUser(context.Background(), &model.User{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
