package rpc

import (
	"context"

	"github.com/platinummonkey/rococo/pkg/model"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Fully qualified service names
const (
	ArtistServiceName   = "rococo.ArtistService"
	MuseumServiceName   = "rococo.MuseumService"
	PaintingServiceName = "rococo.PaintingService"
	GeoServiceName      = "rococo.GeoService"
	UserdataServiceName = "rococo.UserdataService"
)

// ArtistServer is the server API of rococo.ArtistService
type ArtistServer interface {
	GetArtist(context.Context, *IDRequest) (*model.Artist, error)
	ListArtists(context.Context, *ListRequest) (*ArtistPage, error)
	CreateArtist(context.Context, *model.Artist) (*model.Artist, error)
	UpdateArtist(context.Context, *model.Artist) (*model.Artist, error)
	DeleteArtist(context.Context, *IDRequest) (*emptypb.Empty, error)
}

// MuseumServer is the server API of rococo.MuseumService
type MuseumServer interface {
	GetMuseum(context.Context, *IDRequest) (*model.Museum, error)
	ListMuseums(context.Context, *ListRequest) (*MuseumPage, error)
	CreateMuseum(context.Context, *model.Museum) (*model.Museum, error)
	UpdateMuseum(context.Context, *model.Museum) (*model.Museum, error)
	DeleteMuseum(context.Context, *IDRequest) (*emptypb.Empty, error)
}

// PaintingServer is the server API of rococo.PaintingService
type PaintingServer interface {
	GetPainting(context.Context, *IDRequest) (*model.Painting, error)
	ListPaintings(context.Context, *ListRequest) (*PaintingPage, error)
	ListPaintingsByArtist(context.Context, *ListByArtistRequest) (*PaintingPage, error)
	CreatePainting(context.Context, *model.Painting) (*model.Painting, error)
	UpdatePainting(context.Context, *model.Painting) (*model.Painting, error)
	DeletePainting(context.Context, *IDRequest) (*emptypb.Empty, error)
}

// GeoServer is the server API of rococo.GeoService
type GeoServer interface {
	GetCountry(context.Context, *IDRequest) (*model.Country, error)
	ListCountries(context.Context, *ListRequest) (*CountryPage, error)
}

// UserdataServer is the server API of rococo.UserdataService
type UserdataServer interface {
	GetUser(context.Context, *UsernameRequest) (*model.User, error)
	CreateUser(context.Context, *model.User) (*model.User, error)
	UpdateUser(context.Context, *model.User) (*model.User, error)
}

var ArtistServiceDesc = grpc.ServiceDesc{
	ServiceName: ArtistServiceName,
	HandlerType: (*ArtistServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ArtistServiceName, "GetArtist", ArtistServer.GetArtist),
		unary(ArtistServiceName, "ListArtists", ArtistServer.ListArtists),
		unary(ArtistServiceName, "CreateArtist", ArtistServer.CreateArtist),
		unary(ArtistServiceName, "UpdateArtist", ArtistServer.UpdateArtist),
		unary(ArtistServiceName, "DeleteArtist", ArtistServer.DeleteArtist),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rococo/artist",
}

var MuseumServiceDesc = grpc.ServiceDesc{
	ServiceName: MuseumServiceName,
	HandlerType: (*MuseumServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MuseumServiceName, "GetMuseum", MuseumServer.GetMuseum),
		unary(MuseumServiceName, "ListMuseums", MuseumServer.ListMuseums),
		unary(MuseumServiceName, "CreateMuseum", MuseumServer.CreateMuseum),
		unary(MuseumServiceName, "UpdateMuseum", MuseumServer.UpdateMuseum),
		unary(MuseumServiceName, "DeleteMuseum", MuseumServer.DeleteMuseum),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rococo/museum",
}

var PaintingServiceDesc = grpc.ServiceDesc{
	ServiceName: PaintingServiceName,
	HandlerType: (*PaintingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PaintingServiceName, "GetPainting", PaintingServer.GetPainting),
		unary(PaintingServiceName, "ListPaintings", PaintingServer.ListPaintings),
		unary(PaintingServiceName, "ListPaintingsByArtist", PaintingServer.ListPaintingsByArtist),
		unary(PaintingServiceName, "CreatePainting", PaintingServer.CreatePainting),
		unary(PaintingServiceName, "UpdatePainting", PaintingServer.UpdatePainting),
		unary(PaintingServiceName, "DeletePainting", PaintingServer.DeletePainting),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rococo/painting",
}

var GeoServiceDesc = grpc.ServiceDesc{
	ServiceName: GeoServiceName,
	HandlerType: (*GeoServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(GeoServiceName, "GetCountry", GeoServer.GetCountry),
		unary(GeoServiceName, "ListCountries", GeoServer.ListCountries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rococo/geo",
}

var UserdataServiceDesc = grpc.ServiceDesc{
	ServiceName: UserdataServiceName,
	HandlerType: (*UserdataServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(UserdataServiceName, "GetUser", UserdataServer.GetUser),
		unary(UserdataServiceName, "CreateUser", UserdataServer.CreateUser),
		unary(UserdataServiceName, "UpdateUser", UserdataServer.UpdateUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rococo/userdata",
}

func RegisterArtistServer(s grpc.ServiceRegistrar, srv ArtistServer) {
	s.RegisterService(&ArtistServiceDesc, srv)
}

func RegisterMuseumServer(s grpc.ServiceRegistrar, srv MuseumServer) {
	s.RegisterService(&MuseumServiceDesc, srv)
}

func RegisterPaintingServer(s grpc.ServiceRegistrar, srv PaintingServer) {
	s.RegisterService(&PaintingServiceDesc, srv)
}

func RegisterGeoServer(s grpc.ServiceRegistrar, srv GeoServer) {
	s.RegisterService(&GeoServiceDesc, srv)
}

func RegisterUserdataServer(s grpc.ServiceRegistrar, srv UserdataServer) {
	s.RegisterService(&UserdataServiceDesc, srv)
}
