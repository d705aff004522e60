package main

import (
	"context"

	"github.com/platinummonkey/rococo/pkg/app"
	"github.com/platinummonkey/rococo/pkg/async"
	"github.com/platinummonkey/rococo/pkg/backend/userdata"
	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/events"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage/postgres"
	"google.golang.org/grpc"
)

func main() {
	a, ctx, err := app.New(config.RoleUserdata)
	if err != nil {
		panic(err)
	}

	db, err := a.Database(ctx, postgres.SchemaUserdata)
	if err != nil {
		a.Fatal(err, "failed to open database")
	}
	store, err := a.MediaStore(ctx)
	if err != nil {
		a.Fatal(err, "failed to open photo store")
	}
	redis, err := a.Redis(ctx)
	if err != nil {
		a.Fatal(err, "failed to connect to redis")
	}
	service := userdata.NewService(postgres.NewUserRepository(db, a.Metrics), store)

	consumer := events.NewConsumer(redis, a.Config.Redis.EventsChannel, func(ctx context.Context, event events.UserRegistered) error {
		_, err := service.Register(ctx, event.Username)
		return err
	}, a.Logger, a.Metrics)
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	done := async.Supervise(consumerCtx, a.Logger, "user events", async.DefaultBackoff, consumer.Run)
	a.Shutdown.Register("user events", func(ctx context.Context) error {
		stopConsumer()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	a.ServeHealth(nil)
	if err := a.ServeGRPC(ctx, func(s grpc.ServiceRegistrar) {
		rpc.RegisterUserdataServer(s, service)
	}); err != nil {
		a.Fatal(err, "userdata service stopped with error")
	}
}
