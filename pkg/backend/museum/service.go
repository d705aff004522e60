// Package museum implements rococo.MuseumService. Museums keep only the id
// of their country; the gateway resolves it against the geo service.
package museum

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

const entity = "museum"

type Service struct {
	repo   storage.MuseumRepository
	photos backend.Photos
}

var _ rpc.MuseumServer = (*Service)(nil)

func NewService(repo storage.MuseumRepository, store media.Store) *Service {
	return &Service{repo: repo, photos: backend.NewPhotos(store)}
}

func validate(in *model.Museum) error {
	if strings.TrimSpace(in.Title) == "" {
		return rpc.InvalidArgument("museum title is required")
	}
	if in.Geo.Country.ID == uuid.Nil {
		return rpc.InvalidArgument("museum country id is required")
	}
	return nil
}

func (s *Service) GetMuseum(ctx context.Context, in *rpc.IDRequest) (*model.Museum, error) {
	museum, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if museum.Photo, err = s.photos.Load(ctx, museum.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return museum, nil
}

func (s *Service) ListMuseums(ctx context.Context, in *rpc.ListRequest) (*rpc.MuseumPage, error) {
	page, err := s.repo.FindAll(ctx, strings.TrimSpace(in.Query), in.Pageable)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := backend.LoadAll(ctx, s.photos, page.Content, func(m *model.Museum) *string { return &m.Photo }); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return &page, nil
}

func (s *Service) CreateMuseum(ctx context.Context, in *model.Museum) (*model.Museum, error) {
	if err := validate(in); err != nil {
		return nil, err
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

	observability.FromContext(ctx).WithField("museum_id", stored.ID).Info("museum created")
	out := *in
	out.ID = stored.ID
	return &out, nil
}

// UpdateMuseum replaces a museum. An empty photo keeps the stored one.
func (s *Service) UpdateMuseum(ctx context.Context, in *model.Museum) (*model.Museum, error) {
	if in.ID == uuid.Nil {
		return nil, rpc.InvalidArgument("museum id is required")
	}
	if err := validate(in); err != nil {
		return nil, err
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

func (s *Service) DeleteMuseum(ctx context.Context, in *rpc.IDRequest) (*emptypb.Empty, error) {
	if err := s.repo.Delete(ctx, in.ID); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	observability.FromContext(ctx).WithField("museum_id", in.ID).Info("museum deleted")
	return &emptypb.Empty{}, nil
}
