package testkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ErrRegistrationRejected is returned when the auth server refuses a registration
var ErrRegistrationRejected = errors.New("registration rejected")

// LoginConfig names the public client the test harness signs in as
type LoginConfig struct {
	AuthURL     string
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// LoginClient drives the auth server's browser flow without a browser:
// authorization request, sign-in form, then PKCE code exchange.
type LoginClient struct {
	authURL string
	oauth   *oauth2.Config
}

// NewLoginClient returns a client for the auth server at cfg.AuthURL
func NewLoginClient(cfg LoginConfig) *LoginClient {
	base := strings.TrimRight(cfg.AuthURL, "/")
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid"}
	}
	return &LoginClient{
		authURL: base,
		oauth: &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/oauth2/authorize",
				TokenURL:  base + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: cfg.RedirectURI,
			Scopes:      scopes,
		},
	}
}

// OAuth2Config exposes the client configuration, for building token sources
func (c *LoginClient) OAuth2Config() *oauth2.Config {
	return c.oauth
}

// browser returns an http client with a fresh cookie jar that hands
// redirects back to the caller
func browser() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Register creates an account through the registration form
func (c *LoginClient) Register(ctx context.Context, username, password string) error {
	resp, err := postForm(ctx, browser(), c.authURL+"/register", url.Values{
		"username":       {username},
		"password":       {password},
		"passwordSubmit": {password},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: %s status %d", ErrRegistrationRejected, username, resp.StatusCode)
	}
	return nil
}

// Login signs in as username and exchanges the resulting code for a token
func (c *LoginClient) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	client := browser()
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	authorizeURL := c.oauth.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("nonce", uuid.NewString()),
	)

	// Without a session the authorization request bounces to the sign-in form
	loginURL, err := redirectTarget(ctx, client, authorizeURL)
	if err != nil {
		return nil, fmt.Errorf("authorization request: %w", err)
	}

	resp, err := postForm(ctx, client, c.authURL+"/login", url.Values{
		"username": {username},
		"password": {password},
		"continue": {loginURL.Query().Get("continue")},
	})
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		return nil, fmt.Errorf("sign in as %s failed with status %d", username, resp.StatusCode)
	}
	continued, err := resp.Location()
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	callback, err := redirectTarget(ctx, client, continued.String())
	if err != nil {
		return nil, fmt.Errorf("authorization after sign in: %w", err)
	}
	q := callback.Query()
	if e := q.Get("error"); e != "" {
		return nil, fmt.Errorf("authorization denied: %s: %s", e, q.Get("error_description"))
	}
	if q.Get("state") != state {
		return nil, fmt.Errorf("authorization returned state %q, want %q", q.Get("state"), state)
	}

	token, err := c.oauth.Exchange(ctx, q.Get("code"), oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}
	return token, nil
}

// redirectTarget GETs rawURL and returns the Location of the expected 302
func redirectTarget(ctx context.Context, client *http.Client, rawURL string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("expected redirect, got %d: %s", resp.StatusCode, body)
	}
	return resp.Location()
}

func postForm(ctx context.Context, client *http.Client, target string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return client.Do(req)
}
