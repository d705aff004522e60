package main

import (
	"github.com/platinummonkey/rococo/pkg/app"
	"github.com/platinummonkey/rococo/pkg/backend/artist"
	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage/postgres"
	"google.golang.org/grpc"
)

func main() {
	a, ctx, err := app.New(config.RoleArtist)
	if err != nil {
		panic(err)
	}

	db, err := a.Database(ctx, postgres.SchemaArtist)
	if err != nil {
		a.Fatal(err, "failed to open database")
	}
	store, err := a.MediaStore(ctx)
	if err != nil {
		a.Fatal(err, "failed to open photo store")
	}
	service := artist.NewService(postgres.NewArtistRepository(db, a.Metrics), store)

	a.ServeHealth(nil)
	if err := a.ServeGRPC(ctx, func(s grpc.ServiceRegistrar) {
		rpc.RegisterArtistServer(s, service)
	}); err != nil {
		a.Fatal(err, "artist service stopped with error")
	}
}
