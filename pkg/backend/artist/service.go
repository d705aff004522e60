// Package artist implements rococo.ArtistService
package artist

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/backend"
	"github.com/platinummonkey/rococo/pkg/media"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage"
	"google.golang.org/protobuf/types/known/emptypb"
)

const entity = "artist"

// Service serves artists from a repository
type Service struct {
	repo   storage.ArtistRepository
	photos backend.Photos
}

var _ rpc.ArtistServer = (*Service)(nil)

// NewService creates the artist service. store may be nil for inline photos.
func NewService(repo storage.ArtistRepository, store media.Store) *Service {
	return &Service{repo: repo, photos: backend.NewPhotos(store)}
}

func (s *Service) GetArtist(ctx context.Context, in *rpc.IDRequest) (*model.Artist, error) {
	artist, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if artist.Photo, err = s.photos.Load(ctx, artist.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return artist, nil
}

func (s *Service) ListArtists(ctx context.Context, in *rpc.ListRequest) (*rpc.ArtistPage, error) {
	page, err := s.repo.FindAll(ctx, strings.TrimSpace(in.Query), in.Pageable)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := backend.LoadAll(ctx, s.photos, page.Content, func(a *model.Artist) *string { return &a.Photo }); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return &page, nil
}

func (s *Service) CreateArtist(ctx context.Context, in *model.Artist) (*model.Artist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, rpc.InvalidArgument("artist name is required")
	}

	stored := *in
	stored.ID = uuid.Nil
	var err error
	if stored.Photo, err = s.photos.Save(ctx, in.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	observability.FromContext(ctx).WithField("artist_id", stored.ID).Info("artist created")
	out := *in
	out.ID = stored.ID
	return &out, nil
}

// UpdateArtist replaces an artist. An empty photo keeps the stored one.
func (s *Service) UpdateArtist(ctx context.Context, in *model.Artist) (*model.Artist, error) {
	if in.ID == uuid.Nil {
		return nil, rpc.InvalidArgument("artist id is required")
	}
	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	stored := *in
	if in.Photo == "" {
		stored.Photo = existing.Photo
	} else if stored.Photo, err = s.photos.Save(ctx, in.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := s.repo.Update(ctx, &stored); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	out := stored
	if out.Photo, err = s.photos.Load(ctx, stored.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return &out, nil
}

func (s *Service) DeleteArtist(ctx context.Context, in *rpc.IDRequest) (*emptypb.Empty, error) {
	if err := s.repo.Delete(ctx, in.ID); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	observability.FromContext(ctx).WithField("artist_id", in.ID).Info("artist deleted")
	return &emptypb.Empty{}, nil
}
