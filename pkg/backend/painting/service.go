// Package painting implements rococo.PaintingService. Paintings carry only
// the ids of their artist and museum.
package painting

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

const entity = "painting"

type Service struct {
	repo   storage.PaintingRepository
	photos backend.Photos
}

var _ rpc.PaintingServer = (*Service)(nil)

func NewService(repo storage.PaintingRepository, store media.Store) *Service {
	return &Service{repo: repo, photos: backend.NewPhotos(store)}
}

func validate(in *model.Painting) error {
	if strings.TrimSpace(in.Title) == "" {
		return rpc.InvalidArgument("painting title is required")
	}
	if in.Artist.ID == uuid.Nil {
		return rpc.InvalidArgument("painting artist id is required")
	}
	if in.Museum != nil && in.Museum.ID == uuid.Nil {
		return rpc.InvalidArgument("painting museum id must be set when a museum is given")
	}
	return nil
}

// references keeps only the ids of the artist and museum
func references(p model.Painting) model.Painting {
	p.Artist = model.Artist{ID: p.Artist.ID}
	if p.Museum != nil {
		p.Museum = &model.Museum{ID: p.Museum.ID}
	}
	return p
}

func (s *Service) loadPage(ctx context.Context, page model.Page[model.Painting]) (*rpc.PaintingPage, error) {
	if err := backend.LoadAll(ctx, s.photos, page.Content, func(p *model.Painting) *string { return &p.Photo }); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return &page, nil
}

func (s *Service) GetPainting(ctx context.Context, in *rpc.IDRequest) (*model.Painting, error) {
	painting, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if painting.Photo, err = s.photos.Load(ctx, painting.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return painting, nil
}

func (s *Service) ListPaintings(ctx context.Context, in *rpc.ListRequest) (*rpc.PaintingPage, error) {
	page, err := s.repo.FindAll(ctx, strings.TrimSpace(in.Query), in.Pageable)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return s.loadPage(ctx, page)
}

func (s *Service) ListPaintingsByArtist(ctx context.Context, in *rpc.ListByArtistRequest) (*rpc.PaintingPage, error) {
	if in.ArtistID == uuid.Nil {
		return nil, rpc.InvalidArgument("artist id is required")
	}
	page, err := s.repo.FindByArtist(ctx, in.ArtistID, in.Pageable)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return s.loadPage(ctx, page)
}

func (s *Service) CreatePainting(ctx context.Context, in *model.Painting) (*model.Painting, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	stored := references(*in)
	stored.ID = uuid.Nil
	var err error
	if stored.Photo, err = s.photos.Save(ctx, in.Photo); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	observability.FromContext(ctx).WithFields(map[string]interface{}{
		"painting_id": stored.ID,
		"artist_id":   stored.Artist.ID,
	}).Info("painting created")
	out := references(*in)
	out.ID = stored.ID
	return &out, nil
}

// UpdatePainting replaces a painting. An empty photo keeps the stored one.
func (s *Service) UpdatePainting(ctx context.Context, in *model.Painting) (*model.Painting, error) {
	if in.ID == uuid.Nil {
		return nil, rpc.InvalidArgument("painting id is required")
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}

	stored := references(*in)
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

func (s *Service) DeletePainting(ctx context.Context, in *rpc.IDRequest) (*emptypb.Empty, error) {
	if err := s.repo.Delete(ctx, in.ID); err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	observability.FromContext(ctx).WithField("painting_id", in.ID).Info("painting deleted")
	return &emptypb.Empty{}, nil
}
