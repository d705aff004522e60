// Package rpc is the gRPC transport shared by the Rococo backends and the
// gateway.
//
// Messages are plain Go structs from pkg/model carried by a registered
// "json" codec, so service descriptors are declared by hand in services.go.
// Clients select the codec per call with grpc.CallContentSubtype. The
// standard grpc.health.v1.Health service keeps the protobuf codec.
//
// Server side:
//
//	srv := rpc.NewServer(logger, metrics)
//	rpc.RegisterArtistServer(srv.GRPC, artist.NewService(repo, store))
//	err := srv.Serve(ctx, lis, 10*time.Second)
//
// Client side:
//
//	conn, err := rpc.Dial(cfg.Services.ArtistAddr, metrics, cfg.Services.CallTimeout)
//	artists := rpc.NewArtistClient(conn)
package rpc
