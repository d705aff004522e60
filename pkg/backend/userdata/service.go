// Package userdata implements rococo.UserdataService. Profiles are created
// when the auth service announces a registration, or on first access.
package userdata

import (
	"context"
	"strings"

	"github.com/platinummonkey/rococo/pkg/backend"
	"github.com/platinummonkey/rococo/pkg/media"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage"
)

const entity = "user"

type Service struct {
	repo   storage.UserRepository
	photos backend.Photos
}

var _ rpc.UserdataServer = (*Service)(nil)

func NewService(repo storage.UserRepository, store media.Store) *Service {
	return &Service{repo: repo, photos: backend.NewPhotos(store)}
}

// Register creates an empty profile for username. It is idempotent.
func (s *Service) Register(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{Username: username}
	err := s.repo.Create(ctx, user)
	if storage.IsConflict(err) {
		return s.repo.FindByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	observability.FromContext(ctx).WithField("user", username).Info("user profile created")
	return user, nil
}

// findOrRegister returns the stored profile, creating it when missing
func (s *Service) findOrRegister(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if storage.IsNotFound(err) {
		return s.Register(ctx, username)
	}
	return user, err
}

// GetUser returns the profile of a user, creating an empty one when the
// registration event has not been consumed yet
func (s *Service) GetUser(ctx context.Context, in *rpc.UsernameRequest) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, rpc.InvalidArgument("username is required")
	}
	user, err := s.findOrRegister(ctx, username)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if user.Avatar, err = s.photos.Load(ctx, user.Avatar); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return user, nil
}

func (s *Service) CreateUser(ctx context.Context, in *model.User) (*model.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, rpc.InvalidArgument("username is required")
	}

	stored := *in
	var err error
	if stored.Avatar, err = s.photos.Save(ctx, in.Avatar); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	out := *in
	out.ID = stored.ID
	return &out, nil
}

// UpdateUser changes the profile fields. An empty avatar keeps the stored one.
func (s *Service) UpdateUser(ctx context.Context, in *model.User) (*model.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, rpc.InvalidArgument("username is required")
	}
	existing, err := s.findOrRegister(ctx, in.Username)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	stored := *in
	if in.Avatar == "" {
		stored.Avatar = existing.Avatar
	} else if stored.Avatar, err = s.photos.Save(ctx, in.Avatar); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := s.repo.Update(ctx, &stored); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	out := stored
	if out.Avatar, err = s.photos.Load(ctx, stored.Avatar); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return &out, nil
}
