package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/gateway"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/model"
	"golang.org/x/oauth2"
)

// APIError is a non-2xx gateway response
type APIError struct {
	Status  int
	Problem httputil.ErrorJSON
}

func (e *APIError) Error() string {
	if e.Problem.Error.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Problem.Error.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.Status)
}

// APIClient calls the REST gateway. Requests carry a bearer token when the
// client was built with a token source.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient returns a gateway client. A nil source makes anonymous requests.
func NewAPIClient(baseURL string, source oauth2.TokenSource) *APIClient {
	client := http.DefaultClient
	if source != nil {
		client = oauth2.NewClient(context.Background(), source)
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Do sends a JSON request and decodes a JSON response into out, when out is non-nil
func (c *APIClient) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Problem)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func listPath(resource, filterKey, filter string, pageable model.Pageable) string {
	q := url.Values{}
	if filter != "" {
		q.Set(filterKey, filter)
	}
	pageable = pageable.Normalize()
	q.Set("page", strconv.Itoa(pageable.Page))
	q.Set("size", strconv.Itoa(pageable.Size))
	if s := pageable.Sort.String(); s != "" {
		q.Set("sort", s)
	}
	return resource + "?" + q.Encode()
}

// restResource implements the CRUD half of every catalog entity
type restResource[T any] struct {
	client    *APIClient
	path      string
	filterKey string
}

func (r restResource[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodGet, r.path+"/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r restResource[T]) List(ctx context.Context, filter string, pageable model.Pageable) (*model.Page[T], error) {
	var out model.Page[T]
	if err := r.client.Do(ctx, http.MethodGet, listPath(r.path, r.filterKey, filter, pageable), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r restResource[T]) Create(ctx context.Context, entity *T) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPost, r.path, entity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r restResource[T]) Update(ctx context.Context, entity *T) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPatch, r.path, entity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r restResource[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Do(ctx, http.MethodDelete, r.path+"/"+id.String(), nil, nil)
}

type restPaintings struct {
	restResource[model.Painting]
}

func (r restPaintings) ListByArtist(ctx context.Context, artistID uuid.UUID, pageable model.Pageable) (*model.Page[model.Painting], error) {
	var out model.Page[model.Painting]
	path := listPath("/api/painting/author/"+artistID.String(), "", "", pageable)
	if err := r.client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type restCountries struct {
	client *APIClient
}

func (r restCountries) Get(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	var out model.Country
	if err := r.client.Do(ctx, http.MethodGet, "/api/country/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r restCountries) List(ctx context.Context, name string, pageable model.Pageable) (*model.Page[model.Country], error) {
	var out model.Page[model.Country]
	if err := r.client.Do(ctx, http.MethodGet, listPath("/api/country", "name", name, pageable), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// restUsers always acts on the token's user, whatever username is asked for
type restUsers struct {
	client *APIClient
}

func (r restUsers) Get(ctx context.Context, _ string) (*model.User, error) {
	var out model.User
	if err := r.client.Do(ctx, http.MethodGet, "/api/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r restUsers) Update(ctx context.Context, user *model.User) (*model.User, error) {
	var out model.User
	if err := r.client.Do(ctx, http.MethodPatch, "/api/user", user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Artists returns the artist resource
func (c *APIClient) Artists() gateway.ArtistService {
	return restResource[model.Artist]{client: c, path: "/api/artist", filterKey: "name"}
}

// Museums returns the museum resource
func (c *APIClient) Museums() gateway.MuseumService {
	return restResource[model.Museum]{client: c, path: "/api/museum", filterKey: "title"}
}

// Paintings returns the painting resource
func (c *APIClient) Paintings() gateway.PaintingService {
	return restPaintings{restResource[model.Painting]{client: c, path: "/api/painting", filterKey: "title"}}
}

// Countries returns the read-only country resource
func (c *APIClient) Countries() gateway.CountryService {
	return restCountries{client: c}
}

// Users returns the current user's profile resource
func (c *APIClient) Users() gateway.UserService {
	return restUsers{client: c}
}

// Session returns the gateway's view of the current token
func (c *APIClient) Session(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.Do(ctx, http.MethodGet, "/api/session", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
