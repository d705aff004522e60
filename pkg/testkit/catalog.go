package testkit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/gateway"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/storage"
	"google.golang.org/grpc"
)

// Mode selects how fixtures reach the system under test
type Mode string

const (
	// ModeDB writes through the repositories, bypassing every service
	ModeDB Mode = "db"
	// ModeGRPC calls the backend services directly
	ModeGRPC Mode = "grpc"
	// ModeAPI goes through the REST gateway with a bearer token
	ModeAPI Mode = "api"
)

// ParseMode parses a mode name, case-insensitively
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDB, ModeGRPC, ModeAPI:
		return m, nil
	default:
		return "", fmt.Errorf("unknown fixture mode %q (want db, grpc or api)", s)
	}
}

// Catalog is the set of services fixtures are created through. Every mode
// provides the gateway's service interfaces.
type Catalog struct {
	Artists   gateway.ArtistService
	Museums   gateway.MuseumService
	Paintings gateway.PaintingService
	Countries gateway.CountryService
	Users     gateway.UserService
}

// GRPCCatalog talks to the backends over their client connections
func GRPCCatalog(artist, museum, painting, geo, userdata grpc.ClientConnInterface) Catalog {
	return Catalog{
		Artists:   gateway.NewArtistClient(artist),
		Museums:   gateway.NewMuseumClient(museum),
		Paintings: gateway.NewPaintingClient(painting),
		Countries: gateway.NewGeoClient(geo),
		Users:     gateway.NewUserdataClient(userdata),
	}
}

// Repositories are the stores a DB catalog writes to
type Repositories struct {
	Artists   storage.ArtistRepository
	Museums   storage.MuseumRepository
	Paintings storage.PaintingRepository
	Countries storage.CountryRepository
	Users     storage.UserRepository
}

// DBCatalog writes straight into the repositories
func DBCatalog(repos Repositories) Catalog {
	return Catalog{
		Artists:   repoArtists{repos.Artists},
		Museums:   repoMuseums{repos.Museums},
		Paintings: repoPaintings{repos.Paintings},
		Countries: repoCountries{repos.Countries},
		Users:     repoUsers{repos.Users},
	}
}

// APICatalog goes through the gateway
func APICatalog(client *APIClient) Catalog {
	return Catalog{
		Artists:   client.Artists(),
		Museums:   client.Museums(),
		Paintings: client.Paintings(),
		Countries: client.Countries(),
		Users:     client.Users(),
	}
}

// IsNotFound reports a missing entity in any mode
func IsNotFound(err error) bool {
	var notFound *gateway.NotFoundError
	var apiErr *APIError
	switch {
	case err == nil:
		return false
	case errors.As(err, &notFound), storage.IsNotFound(err):
		return true
	case errors.As(err, &apiErr):
		return apiErr.Status == 404
	default:
		return false
	}
}

type repoArtists struct{ repo storage.ArtistRepository }

func (r repoArtists) Get(ctx context.Context, id uuid.UUID) (*model.Artist, error) {
	return r.repo.FindByID(ctx, id)
}

func (r repoArtists) List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Artist], error) {
	page, err := r.repo.FindAll(ctx, name, pageable.Normalize())
	return &page, err
}

func (r repoArtists) Create(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	created := *artist
	return &created, r.repo.Create(ctx, &created)
}

func (r repoArtists) Update(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	updated := *artist
	return &updated, r.repo.Update(ctx, &updated)
}

func (r repoArtists) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, id)
}

type repoMuseums struct{ repo storage.MuseumRepository }

func (r repoMuseums) Get(ctx context.Context, id uuid.UUID) (*model.Museum, error) {
	return r.repo.FindByID(ctx, id)
}

func (r repoMuseums) List(ctx context.Context, title string, pageable model.Pageable) (*model.Page[model.Museum], error) {
	page, err := r.repo.FindAll(ctx, title, pageable.Normalize())
	return &page, err
}

func (r repoMuseums) Create(ctx context.Context, museum *model.Museum) (*model.Museum, error) {
	created := *museum
	return &created, r.repo.Create(ctx, &created)
}

func (r repoMuseums) Update(ctx context.Context, museum *model.Museum) (*model.Museum, error) {
	updated := *museum
	return &updated, r.repo.Update(ctx, &updated)
}

func (r repoMuseums) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, id)
}

type repoPaintings struct{ repo storage.PaintingRepository }

func (r repoPaintings) Get(ctx context.Context, id uuid.UUID) (*model.Painting, error) {
	return r.repo.FindByID(ctx, id)
}

func (r repoPaintings) List(ctx context.Context, title string, pageable model.Pageable) (*model.Page[model.Painting], error) {
	page, err := r.repo.FindAll(ctx, title, pageable.Normalize())
	return &page, err
}

func (r repoPaintings) ListByArtist(ctx context.Context, artistID uuid.UUID, pageable model.Pageable) (*model.Page[model.Painting], error) {
	page, err := r.repo.FindByArtist(ctx, artistID, pageable.Normalize())
	return &page, err
}

func (r repoPaintings) Create(ctx context.Context, painting *model.Painting) (*model.Painting, error) {
	created := *painting
	return &created, r.repo.Create(ctx, &created)
}

func (r repoPaintings) Update(ctx context.Context, painting *model.Painting) (*model.Painting, error) {
	updated := *painting
	return &updated, r.repo.Update(ctx, &updated)
}

func (r repoPaintings) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, id)
}

type repoCountries struct{ repo storage.CountryRepository }

func (r repoCountries) Get(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	return r.repo.FindByID(ctx, id)
}

func (r repoCountries) List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Country], error) {
	page, err := r.repo.FindAll(ctx, name, pageable.Normalize())
	return &page, err
}

type repoUsers struct{ repo storage.UserRepository }

// Get creates the profile on first use, as the userdata service does
func (r repoUsers) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := r.repo.FindByUsername(ctx, username)
	if !storage.IsNotFound(err) {
		return user, err
	}
	created := &model.User{Username: username}
	if err := r.repo.Create(ctx, created); err != nil && !storage.IsConflict(err) {
		return nil, err
	}
	return r.repo.FindByUsername(ctx, username)
}

func (r repoUsers) Update(ctx context.Context, user *model.User) (*model.User, error) {
	if _, err := r.Get(ctx, user.Username); err != nil {
		return nil, err
	}
	updated := *user
	return &updated, r.repo.Update(ctx, &updated)
}
