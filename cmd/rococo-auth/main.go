package main

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/platinummonkey/rococo/pkg/app"
	"github.com/platinummonkey/rococo/pkg/auth"
	"github.com/platinummonkey/rococo/pkg/config"
	"github.com/platinummonkey/rococo/pkg/events"
	"github.com/platinummonkey/rococo/pkg/storage/postgres"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	a, ctx, err := app.New(config.RoleAuth)
	if err != nil {
		panic(err)
	}
	cfg := a.Config.Auth

	db, err := a.Database(ctx, postgres.SchemaAuth)
	if err != nil {
		a.Fatal(err, "failed to open database")
	}
	repo := postgres.NewAuthRepository(db, a.Metrics)

	var publisher auth.RegistrationPublisher
	if redis, err := a.Redis(ctx); err != nil {
		a.Logger.WithError(err).Warn("redis unavailable, registrations will not be announced")
	} else {
		publisher = events.NewPublisher(redis, a.Config.Redis.EventsChannel, a.Metrics)
	}

	signer, err := loadSigner(a, cfg.SigningKeyFile)
	if err != nil {
		a.Fatal(err, "failed to load signing key")
	}

	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		a.Logger.Warn("no session secret configured, sessions will not survive a restart")
		sessionSecret = randomSecret()
	}

	purger, err := auth.NewPurger(repo, cfg.PurgeSchedule, a.Logger)
	if err != nil {
		a.Fatal(err, "invalid purge schedule")
	}
	purger.Start()
	a.Shutdown.Register("purger", purger.Stop)

	server := auth.NewServer(auth.Config{
		Issuer:          cfg.IssuerURL,
		ClientID:        cfg.ClientID,
		RedirectURIs:    cfg.RedirectURIs,
		FrontendURL:     cfg.FrontendURL,
		SessionSecret:   sessionSecret,
		SessionTTL:      cfg.SessionTTL,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		CodeTTL:         cfg.CodeTTL,
	}, repo, signer, publisher, a.Logger, a.Metrics)

	a.ServeHealth(nil)
	var handler http.Handler = otelhttp.NewHandler(server.Handler(), "rococo-auth")
	if err := a.ServeHTTP(ctx, handler); err != nil {
		a.Fatal(err, "auth server stopped with error")
	}
}

// loadSigner reads the RSA key from path, or generates an ephemeral one
func loadSigner(a *app.App, path string) (*auth.Signer, error) {
	if path != "" {
		return auth.LoadSigner(path)
	}
	a.Logger.Warn("no signing key configured, generated an ephemeral key; tokens will not survive a restart")
	return auth.GenerateSigner()
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

