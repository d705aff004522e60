package main

import (
	"github.com/platinummonkey/rococo/pkg/app"
	"github.com/platinummonkey/rococo/pkg/backend/geo"
	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage/postgres"
	"google.golang.org/grpc"
)

func main() {
	a, ctx, err := app.New(config.RoleGeo)
	if err != nil {
		panic(err)
	}

	// The geo migrations seed the country list
	db, err := a.Database(ctx, postgres.SchemaGeo)
	if err != nil {
		a.Fatal(err, "failed to open database")
	}
	service := geo.NewService(postgres.NewCountryRepository(db, a.Metrics))

	a.ServeHealth(nil)
	if err := a.ServeGRPC(ctx, func(s grpc.ServiceRegistrar) {
		rpc.RegisterGeoServer(s, service)
	}); err != nil {
		a.Fatal(err, "geo service stopped with error")
	}
}
