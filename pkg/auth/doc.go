// Package auth is the Rococo authorization server.
//
// # Overview
//
// Visitors register and sign in with a username and password. The frontend
// obtains tokens through the OAuth2 authorization code flow with PKCE and
// sends the access token to the gateway, which verifies it against the key
// set published here.
//
// # Key Components
//
// Accounts: form registration and login backed by bcrypt hashes
//
//	POST /register  username, password, passwordSubmit
//	POST /login     username, password, continue
//	GET  /logout
//
// Sessions: an HS256 signed cookie remembers the signed-in user between the
// login form and the authorization endpoint
//
// Authorization code flow: single-use codes bound to the client, redirect
// URI and S256 code challenge
//
//	GET  /oauth2/authorize?response_type=code&client_id=...&redirect_uri=...
//	     &state=...&code_challenge=...&code_challenge_method=S256
//	POST /oauth2/token  grant_type=authorization_code&code=...&code_verifier=...
//	POST /oauth2/token  grant_type=refresh_token&refresh_token=...
//
// Refresh tokens rotate: each use consumes the presented token and issues a
// new one. Only SHA256 hashes of refresh tokens are stored.
//
// Keys: access and id tokens are RS256 JWTs whose kid is the JWK thumbprint
// of the signing key
//
//	GET /oauth2/jwks
//	GET /.well-known/openid-configuration
//
// # Events
//
// A successful registration publishes a user.registered event so the
// userdata service can create the profile.
//
// # Maintenance
//
// Purger deletes expired codes and refresh tokens on a cron schedule:
//
//	purger, err := auth.NewPurger(repo, "*/15 * * * *", logger)
//	purger.Start()
//	defer purger.Stop(ctx)
package auth
