package rpc

import (
	"context"

	"github.com/platinummonkey/rococo/pkg/model"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

func method(service, name string) string {
	return "/" + service + "/" + name
}

// ArtistClient calls rococo.ArtistService
type ArtistClient struct {
	cc grpc.ClientConnInterface
}

func NewArtistClient(cc grpc.ClientConnInterface) *ArtistClient {
	return &ArtistClient{cc: cc}
}

func (c *ArtistClient) GetArtist(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*model.Artist, error) {
	return invoke[model.Artist](ctx, c.cc, method(ArtistServiceName, "GetArtist"), in, opts)
}

func (c *ArtistClient) ListArtists(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ArtistPage, error) {
	return invoke[ArtistPage](ctx, c.cc, method(ArtistServiceName, "ListArtists"), in, opts)
}

func (c *ArtistClient) CreateArtist(ctx context.Context, in *model.Artist, opts ...grpc.CallOption) (*model.Artist, error) {
	return invoke[model.Artist](ctx, c.cc, method(ArtistServiceName, "CreateArtist"), in, opts)
}

func (c *ArtistClient) UpdateArtist(ctx context.Context, in *model.Artist, opts ...grpc.CallOption) (*model.Artist, error) {
	return invoke[model.Artist](ctx, c.cc, method(ArtistServiceName, "UpdateArtist"), in, opts)
}

func (c *ArtistClient) DeleteArtist(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, method(ArtistServiceName, "DeleteArtist"), in, opts)
}

// MuseumClient calls rococo.MuseumService
type MuseumClient struct {
	cc grpc.ClientConnInterface
}

func NewMuseumClient(cc grpc.ClientConnInterface) *MuseumClient {
	return &MuseumClient{cc: cc}
}

func (c *MuseumClient) GetMuseum(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*model.Museum, error) {
	return invoke[model.Museum](ctx, c.cc, method(MuseumServiceName, "GetMuseum"), in, opts)
}

func (c *MuseumClient) ListMuseums(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*MuseumPage, error) {
	return invoke[MuseumPage](ctx, c.cc, method(MuseumServiceName, "ListMuseums"), in, opts)
}

func (c *MuseumClient) CreateMuseum(ctx context.Context, in *model.Museum, opts ...grpc.CallOption) (*model.Museum, error) {
	return invoke[model.Museum](ctx, c.cc, method(MuseumServiceName, "CreateMuseum"), in, opts)
}

func (c *MuseumClient) UpdateMuseum(ctx context.Context, in *model.Museum, opts ...grpc.CallOption) (*model.Museum, error) {
	return invoke[model.Museum](ctx, c.cc, method(MuseumServiceName, "UpdateMuseum"), in, opts)
}

func (c *MuseumClient) DeleteMuseum(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, method(MuseumServiceName, "DeleteMuseum"), in, opts)
}

// PaintingClient calls rococo.PaintingService
type PaintingClient struct {
	cc grpc.ClientConnInterface
}

func NewPaintingClient(cc grpc.ClientConnInterface) *PaintingClient {
	return &PaintingClient{cc: cc}
}

func (c *PaintingClient) GetPainting(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*model.Painting, error) {
	return invoke[model.Painting](ctx, c.cc, method(PaintingServiceName, "GetPainting"), in, opts)
}

func (c *PaintingClient) ListPaintings(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*PaintingPage, error) {
	return invoke[PaintingPage](ctx, c.cc, method(PaintingServiceName, "ListPaintings"), in, opts)
}

func (c *PaintingClient) ListPaintingsByArtist(ctx context.Context, in *ListByArtistRequest, opts ...grpc.CallOption) (*PaintingPage, error) {
	return invoke[PaintingPage](ctx, c.cc, method(PaintingServiceName, "ListPaintingsByArtist"), in, opts)
}

func (c *PaintingClient) CreatePainting(ctx context.Context, in *model.Painting, opts ...grpc.CallOption) (*model.Painting, error) {
	return invoke[model.Painting](ctx, c.cc, method(PaintingServiceName, "CreatePainting"), in, opts)
}

func (c *PaintingClient) UpdatePainting(ctx context.Context, in *model.Painting, opts ...grpc.CallOption) (*model.Painting, error) {
	return invoke[model.Painting](ctx, c.cc, method(PaintingServiceName, "UpdatePainting"), in, opts)
}

func (c *PaintingClient) DeletePainting(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, method(PaintingServiceName, "DeletePainting"), in, opts)
}

// GeoClient calls rococo.GeoService
type GeoClient struct {
	cc grpc.ClientConnInterface
}

func NewGeoClient(cc grpc.ClientConnInterface) *GeoClient {
	return &GeoClient{cc: cc}
}

func (c *GeoClient) GetCountry(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*model.Country, error) {
	return invoke[model.Country](ctx, c.cc, method(GeoServiceName, "GetCountry"), in, opts)
}

func (c *GeoClient) ListCountries(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*CountryPage, error) {
	return invoke[CountryPage](ctx, c.cc, method(GeoServiceName, "ListCountries"), in, opts)
}

// UserdataClient calls rococo.UserdataService
type UserdataClient struct {
	cc grpc.ClientConnInterface
}

func NewUserdataClient(cc grpc.ClientConnInterface) *UserdataClient {
	return &UserdataClient{cc: cc}
}

func (c *UserdataClient) GetUser(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*model.User, error) {
	return invoke[model.User](ctx, c.cc, method(UserdataServiceName, "GetUser"), in, opts)
}

func (c *UserdataClient) CreateUser(ctx context.Context, in *model.User, opts ...grpc.CallOption) (*model.User, error) {
	return invoke[model.User](ctx, c.cc, method(UserdataServiceName, "CreateUser"), in, opts)
}

func (c *UserdataClient) UpdateUser(ctx context.Context, in *model.User, opts ...grpc.CallOption) (*model.User, error) {
	return invoke[model.User](ctx, c.cc, method(UserdataServiceName, "UpdateUser"), in, opts)
}
