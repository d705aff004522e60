package main

import (
	"context"
	"strings"
	"time"

	"github.com/platinummonkey/rococo/pkg/app"
	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/gateway"
	"github.com/platinummonkey/rococo/pkg/middleware"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage"
	"google.golang.org/grpc"
)

func main() {
	a, ctx, err := app.New(config.RoleGateway)
	if err != nil {
		panic(err)
	}
	cfg := a.Config

	conns := map[string]grpc.ClientConnInterface{}
	dial := func(name, addr string) *grpc.ClientConn {
		conn, err := rpc.Dial(addr, a.Metrics, cfg.Services.CallTimeout)
		if err != nil {
			a.Fatal(err, "failed to dial "+name+" service")
		}
		conns[name] = conn
		a.Shutdown.Register(name+" client", func(context.Context) error { return conn.Close() })
		return conn
	}
	artistConn := dial("artist", cfg.Services.ArtistAddr)
	museumConn := dial("museum", cfg.Services.MuseumAddr)
	paintingConn := dial("painting", cfg.Services.PaintingAddr)
	geoConn := dial("geo", cfg.Services.GeoAddr)
	userdataConn := dial("userdata", cfg.Services.UserdataAddr)

	// Redis backs the shared country cache and rate limit; without it both
	// stay in-process
	redis, err := a.Redis(ctx)
	if err != nil {
		a.Logger.WithError(err).Warn("redis unavailable, using in-process cache and rate limit")
		redis = nil
	}

	var limiter middleware.Limiter
	switch {
	case cfg.Gateway.RateLimitRPS == 0:
	case redis != nil:
		limiter = middleware.NewDistributedRateLimiter(redis, cfg.Gateway.RateLimitBurst, time.Second, "")
	default:
		local := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Gateway.RateLimitRPS,
			BurstSize:         cfg.Gateway.RateLimitBurst,
		})
		local.StartCleanup(ctx, time.Minute)
		limiter = local
	}

	countries := gateway.NewCachedCountries(gateway.NewGeoClient(geoConn),
		storage.NewTieredCache[model.Country]("country", cfg.Gateway.CountryCacheSize, cfg.Gateway.CountryCacheTTL, redis, a.Metrics))

	issuer := strings.TrimRight(cfg.Auth.IssuerURL, "/")
	verifierCtx, stopVerifier := context.WithCancel(context.Background())
	a.Shutdown.Register("token verifier", func(context.Context) error {
		stopVerifier()
		return nil
	})

	server := gateway.NewServer(gateway.Backends{
		Artists:   gateway.NewArtistClient(artistConn),
		Museums:   gateway.NewMuseumClient(museumConn),
		Paintings: gateway.NewPaintingClient(paintingConn),
		Countries: countries,
		Users:     gateway.NewUserdataClient(userdataConn),
	}, gateway.Options{
		Verifier:       middleware.NewOIDCVerifier(verifierCtx, issuer, issuer+"/oauth2/jwks", cfg.Auth.ClientID),
		Limiter:        limiter,
		Logger:         a.Logger,
		Metrics:        a.Metrics,
		AllowedOrigins: cfg.Gateway.AllowedOrigins,
		MaxPhotoBytes:  cfg.Media.MaxPhotoBytes,
	})

	a.ServeHealth(conns)
	if err := a.ServeHTTP(ctx, server); err != nil {
		a.Fatal(err, "gateway stopped with error")
	}
}
