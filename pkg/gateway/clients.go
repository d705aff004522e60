package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"google.golang.org/grpc"
)

// ArtistService is what the gateway needs from the artist backend
type ArtistService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Artist, error)
	List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Artist], error)
	Create(ctx context.Context, artist *model.Artist) (*model.Artist, error)
	Update(ctx context.Context, artist *model.Artist) (*model.Artist, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MuseumService is what the gateway needs from the museum backend
type MuseumService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Museum, error)
	List(ctx context.Context, title string, pageable model.Pageable) (*model.Page[model.Museum], error)
	Create(ctx context.Context, museum *model.Museum) (*model.Museum, error)
	Update(ctx context.Context, museum *model.Museum) (*model.Museum, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaintingService is what the gateway needs from the painting backend
type PaintingService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Painting, error)
	List(ctx context.Context, title string, pageable model.Pageable) (*model.Page[model.Painting], error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, pageable model.Pageable) (*model.Page[model.Painting], error)
	Create(ctx context.Context, painting *model.Painting) (*model.Painting, error)
	Update(ctx context.Context, painting *model.Painting) (*model.Painting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CountryService is what the gateway needs from the geo backend
type CountryService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Country, error)
	List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Country], error)
}

// UserService is what the gateway needs from the userdata backend
type UserService interface {
	Get(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) (*model.User, error)
}

// ArtistClient proxies ArtistService to rococo.ArtistService
type ArtistClient struct {
	stub *rpc.ArtistClient
}

var _ ArtistService = (*ArtistClient)(nil)

func NewArtistClient(cc grpc.ClientConnInterface) *ArtistClient {
	return &ArtistClient{stub: rpc.NewArtistClient(cc)}
}

func (c *ArtistClient) Get(ctx context.Context, id uuid.UUID) (*model.Artist, error) {
	out, err := c.stub.GetArtist(ctx, &rpc.IDRequest{ID: id})
	return out, translate(err, "artist", "artist", id.String())
}

func (c *ArtistClient) List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Artist], error) {
	out, err := c.stub.ListArtists(ctx, &rpc.ListRequest{Query: name, Pageable: pageable})
	return out, translate(err, "artist", "artist", "")
}

func (c *ArtistClient) Create(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	out, err := c.stub.CreateArtist(ctx, artist)
	return out, translate(err, "artist", "artist", "")
}

func (c *ArtistClient) Update(ctx context.Context, artist *model.Artist) (*model.Artist, error) {
	out, err := c.stub.UpdateArtist(ctx, artist)
	return out, translate(err, "artist", "artist", artist.ID.String())
}

func (c *ArtistClient) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.stub.DeleteArtist(ctx, &rpc.IDRequest{ID: id})
	return translate(err, "artist", "artist", id.String())
}

// MuseumClient proxies MuseumService to rococo.MuseumService
type MuseumClient struct {
	stub *rpc.MuseumClient
}

var _ MuseumService = (*MuseumClient)(nil)

func NewMuseumClient(cc grpc.ClientConnInterface) *MuseumClient {
	return &MuseumClient{stub: rpc.NewMuseumClient(cc)}
}

func (c *MuseumClient) Get(ctx context.Context, id uuid.UUID) (*model.Museum, error) {
	out, err := c.stub.GetMuseum(ctx, &rpc.IDRequest{ID: id})
	return out, translate(err, "museum", "museum", id.String())
}

func (c *MuseumClient) List(ctx context.Context, title string, pageable model.Pageable) (*model.Page[model.Museum], error) {
	out, err := c.stub.ListMuseums(ctx, &rpc.ListRequest{Query: title, Pageable: pageable})
	return out, translate(err, "museum", "museum", "")
}

func (c *MuseumClient) Create(ctx context.Context, museum *model.Museum) (*model.Museum, error) {
	out, err := c.stub.CreateMuseum(ctx, museum)
	return out, translate(err, "museum", "museum", "")
}

func (c *MuseumClient) Update(ctx context.Context, museum *model.Museum) (*model.Museum, error) {
	out, err := c.stub.UpdateMuseum(ctx, museum)
	return out, translate(err, "museum", "museum", museum.ID.String())
}

func (c *MuseumClient) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.stub.DeleteMuseum(ctx, &rpc.IDRequest{ID: id})
	return translate(err, "museum", "museum", id.String())
}

// PaintingClient proxies PaintingService to rococo.PaintingService
type PaintingClient struct {
	stub *rpc.PaintingClient
}

var _ PaintingService = (*PaintingClient)(nil)

func NewPaintingClient(cc grpc.ClientConnInterface) *PaintingClient {
	return &PaintingClient{stub: rpc.NewPaintingClient(cc)}
}

func (c *PaintingClient) Get(ctx context.Context, id uuid.UUID) (*model.Painting, error) {
	out, err := c.stub.GetPainting(ctx, &rpc.IDRequest{ID: id})
	return out, translate(err, "painting", "painting", id.String())
}

func (c *PaintingClient) List(ctx context.Context, title string, pageable model.Pageable) (*model.Page[model.Painting], error) {
	out, err := c.stub.ListPaintings(ctx, &rpc.ListRequest{Query: title, Pageable: pageable})
	return out, translate(err, "painting", "painting", "")
}

func (c *PaintingClient) ListByArtist(ctx context.Context, artistID uuid.UUID, pageable model.Pageable) (*model.Page[model.Painting], error) {
	out, err := c.stub.ListPaintingsByArtist(ctx, &rpc.ListByArtistRequest{ArtistID: artistID, Pageable: pageable})
	return out, translate(err, "painting", "painting", "")
}

func (c *PaintingClient) Create(ctx context.Context, painting *model.Painting) (*model.Painting, error) {
	out, err := c.stub.CreatePainting(ctx, painting)
	return out, translate(err, "painting", "painting", "")
}

func (c *PaintingClient) Update(ctx context.Context, painting *model.Painting) (*model.Painting, error) {
	out, err := c.stub.UpdatePainting(ctx, painting)
	return out, translate(err, "painting", "painting", painting.ID.String())
}

func (c *PaintingClient) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.stub.DeletePainting(ctx, &rpc.IDRequest{ID: id})
	return translate(err, "painting", "painting", id.String())
}

// GeoClient proxies CountryService to rococo.GeoService
type GeoClient struct {
	stub *rpc.GeoClient
}

var _ CountryService = (*GeoClient)(nil)

func NewGeoClient(cc grpc.ClientConnInterface) *GeoClient {
	return &GeoClient{stub: rpc.NewGeoClient(cc)}
}

func (c *GeoClient) Get(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	out, err := c.stub.GetCountry(ctx, &rpc.IDRequest{ID: id})
	return out, translate(err, "geo", "country", id.String())
}

func (c *GeoClient) List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Country], error) {
	out, err := c.stub.ListCountries(ctx, &rpc.ListRequest{Query: name, Pageable: pageable})
	return out, translate(err, "geo", "country", "")
}

// UserdataClient proxies UserService to rococo.UserdataService
type UserdataClient struct {
	stub *rpc.UserdataClient
}

var _ UserService = (*UserdataClient)(nil)

func NewUserdataClient(cc grpc.ClientConnInterface) *UserdataClient {
	return &UserdataClient{stub: rpc.NewUserdataClient(cc)}
}

func (c *UserdataClient) Get(ctx context.Context, username string) (*model.User, error) {
	out, err := c.stub.GetUser(ctx, &rpc.UsernameRequest{Username: username})
	return out, translate(err, "userdata", "user", username)
}

func (c *UserdataClient) Update(ctx context.Context, user *model.User) (*model.User, error) {
	out, err := c.stub.UpdateUser(ctx, user)
	return out, translate(err, "userdata", "user", user.Username)
}
