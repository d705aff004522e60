// Package app holds the process wiring shared by the Rococo binaries:
// configuration, logging, metrics, tracing, health probes, stores and
// graceful shutdown.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/media"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/platinummonkey/rococo/pkg/storage/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

// Version is set at build time with -ldflags "-X .../pkg/app.Version=..."
var Version = "dev"

// App is one running Rococo process
type App struct {
	Config   *config.Config
	Logger   *observability.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Health   *observability.HealthChecker
	Shutdown *observability.ShutdownManager

	db    *sqlx.DB
	redis *storage.RedisClient
}

// New loads the configuration of role and sets up logging, metrics and
// tracing. The returned context is cancelled on SIGINT or SIGTERM.
func New(role config.Role) (*App, context.Context, error) {
	cfg, err := config.LoadConfig(role)
	if err != nil {
		return nil, nil, err
	}

	logger := observability.NewLogger(cfg.Observability.Level(), os.Stdout).
		WithField("service", "rococo-"+string(role))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  observability.NewMetrics(registry),
		Shutdown: observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout),
	}

	ctx, stop := observability.SignalContext(context.Background())
	a.Shutdown.Register("signals", func(context.Context) error {
		stop()
		return nil
	})

	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		logger.WithError(err).Warn("OpenTelemetry disabled after initialization failure")
	} else if providers != nil {
		a.Shutdown.Register("otel", func(ctx context.Context) error {
			return observability.ShutdownOTel(ctx, providers, logger)
		})
	}

	logger.WithField("version", Version).Info("starting")
	return a, ctx, nil
}

// Database connects to the role's database and applies the schema's
// migrations when enabled
func (a *App) Database(ctx context.Context, schema string) (*sqlx.DB, error) {
	d := a.Config.Database
	if d.Migrate {
		if err := postgres.Migrate(d.URL, schema); err != nil {
			return nil, fmt.Errorf("failed to migrate %s schema: %w", schema, err)
		}
		a.Logger.WithField("schema", schema).Info("migrations applied")
	}

	db, err := postgres.Connect(ctx, postgres.ConnectionConfig{
		URL:         d.URL,
		MaxConns:    d.MaxConns,
		MinConns:    d.MinConns,
		Timeout:     d.Timeout,
		MaxLifetime: d.MaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	a.db = db
	a.Shutdown.Register("database", func(context.Context) error { return db.Close() })
	return db, nil
}

// Redis connects to the shared Redis
func (a *App) Redis(ctx context.Context) (*storage.RedisClient, error) {
	r := a.Config.Redis
	client, err := storage.NewRedisClient(ctx, storage.RedisConfig{
		URL:      r.URL,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
	})
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.Shutdown.Register("redis", func(context.Context) error { return client.Close() })
	return client, nil
}

// MediaStore returns the configured photo store
func (a *App) MediaStore(ctx context.Context) (media.Store, error) {
	m := a.Config.Media
	if m.Backend != "s3" {
		return media.InlineStore{}, nil
	}
	store, err := media.NewS3Store(ctx, media.S3Config{
		Endpoint:     m.S3Endpoint,
		Region:       m.S3Region,
		Bucket:       m.S3Bucket,
		AccessKey:    m.S3AccessKey,
		SecretKey:    m.S3SecretKey,
		UsePathStyle: m.S3PathStyle,
		MaxBytes:     m.MaxPhotoBytes,
	})
	if err != nil {
		return nil, err
	}
	a.Logger.WithField("bucket", m.S3Bucket).Info("photos stored in S3")
	return store, nil
}

// ServeHealth starts the health and metrics listener. Dependencies opened
// before the call are probed by readiness.
func (a *App) ServeHealth(grpcDeps map[string]grpc.ClientConnInterface) {
	var db *sql.DB
	if a.db != nil {
		db = a.db.DB
	}
	var redisClient *redis.Client
	if a.redis != nil {
		redisClient = a.redis.GetClient()
	}
	a.Health = observability.NewHealthChecker(db, redisClient)
	a.Health.SetVersion(Version)
	for name, conn := range grpcDeps {
		a.Health.AddGRPCDependency(name, conn)
	}

	mux := http.NewServeMux()
	var registry *prometheus.Registry
	if a.Config.Observability.MetricsEnabled {
		registry = a.Registry
	}
	observability.RegisterHealthRoutes(mux, a.Health, registry)

	srv := &http.Server{Addr: a.Config.Server.HealthAddr(), Handler: mux}
	go func() {
		a.Logger.WithField("addr", srv.Addr).Info("health server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.WithError(err).Error("health server failed")
		}
	}()
	a.Shutdown.Register("health server", srv.Shutdown)
}

// ServeHTTP serves handler on the main port until ctx is done
func (a *App) ServeHTTP(ctx context.Context, handler http.Handler) error {
	s := a.Config.Server
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
	a.Shutdown.Register("http server", srv.Shutdown)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	return a.Shutdown.Shutdown()
}

// ServeGRPC registers services on a gRPC server and serves it on the main
// port until ctx is done
func (a *App) ServeGRPC(ctx context.Context, register func(grpc.ServiceRegistrar)) error {
	server := rpc.NewServer(a.Logger, a.Metrics)
	register(server.GRPC)

	lis, err := net.Listen("tcp", a.Config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Config.Server.Addr(), err)
	}
	serveErr := server.Serve(ctx, lis, a.Config.Server.ShutdownTimeout)
	return errors.Join(serveErr, a.Shutdown.Shutdown())
}

// Fatal logs err and exits
func (a *App) Fatal(err error, msg string) {
	a.Logger.WithError(err).Error(msg)
	_ = a.Shutdown.Shutdown()
	os.Exit(1)
}
