package gateway

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistHandlers_CRUD(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Claude Monet")

	code, body := env.do(t, http.MethodGet, "/api/artist/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Claude Monet", body.Get("name").String())
	assert.Equal(t, testPhoto, body.Get("photo").String())

	code, body = env.do(t, http.MethodPatch, "/api/artist", testToken, map[string]string{
		"id":        id,
		"name":      "Oscar-Claude Monet",
		"biography": "Founder of French Impressionism",
		"photo":     testPhoto,
	})
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, "Oscar-Claude Monet", body.Get("name").String())

	code, _ = env.do(t, http.MethodDelete, "/api/artist/"+id, testToken, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = env.do(t, http.MethodGet, "/api/artist/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "1.0", body.Get("apiVersion").String())
	assert.Equal(t, "404 NOT_FOUND", body.Get("error.code").String())
	assert.Equal(t, "Artist not found", body.Get("error.message").String())
	assert.Equal(t, "ArtistNotFound", body.Get("error.errors.0.reason").String())
	assert.Equal(t, "/api/artist/"+id, body.Get("error.errors.0.domain").String())
}

func TestArtistHandlers_ListFiltersAndPages(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Claude Monet", "Edouard Manet", "Gustav Klimt"} {
		env.createArtist(t, name)
	}

	code, body := env.do(t, http.MethodGet, "/api/artist?name=MONET&sort=name,desc", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), body.Get("totalElements").Int())
	assert.Equal(t, "Claude Monet", body.Get("content.0.name").String())

	code, body = env.do(t, http.MethodGet, "/api/artist?size=2&page=1&sort=name", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), body.Get("totalElements").Int())
	assert.Equal(t, int64(2), body.Get("totalPages").Int())
	assert.True(t, body.Get("last").Bool())
	assert.Equal(t, "Gustav Klimt", body.Get("content.0.name").String())
}

func TestArtistHandlers_RejectsUnknownSortColumn(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/artist?sort=biography", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidSort", body.Get("error.errors.0.reason").String())
}

func TestArtistHandlers_WritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/artist", "", map[string]string{"name": "Claude Monet"})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "401 UNAUTHORIZED", body.Get("error.code").String())

	code, _ = env.do(t, http.MethodDelete, "/api/artist/"+uuid.NewString(), "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestArtistHandlers_DuplicateNameConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.createArtist(t, "Claude Monet")

	code, body := env.do(t, http.MethodPost, "/api/artist", testToken, map[string]string{
		"name":      "Claude Monet",
		"biography": "Another biography entirely",
		"photo":     testPhoto,
	})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "409 CONFLICT", body.Get("error.code").String())
	assert.Equal(t, "ArtistAlreadyExists", body.Get("error.errors.0.reason").String())
}

func TestArtistHandlers_ValidationAggregatesViolations(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/artist", testToken, map[string]string{
		"name":      "<b>ab</b>",
		"biography": "short",
		"photo":     "not a data url",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "400 BAD_REQUEST", body.Get("error.code").String())

	var reasons []string
	for _, e := range body.Get("error.errors").Array() {
		reasons = append(reasons, e.Get("reason").String())
	}
	assert.ElementsMatch(t, []string{"name", "biography", "photo"}, reasons)
}

func TestArtistHandlers_UpdateRequiresID(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPatch, "/api/artist", testToken, map[string]string{
		"name":      "Claude Monet",
		"biography": "Founder of French Impressionism",
		"photo":     testPhoto,
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "id", body.Get("error.errors.0.reason").String())
}

func TestArtistHandlers_InvalidPathID(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/artist/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidId", body.Get("error.errors.0.reason").String())
}

func TestArtistHandlers_SanitizesFreeText(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/artist", testToken, map[string]string{
		"name":      "<script>alert(1)</script>Claude <b>Monet</b>",
		"biography": "Painter of <i>light</i> & water",
		"photo":     testPhoto,
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)
	assert.Equal(t, "Claude Monet", body.Get("name").String())
	assert.Equal(t, "Painter of light & water", body.Get("biography").String())
}

func TestMuseumHandlers_ComposesCountry(t *testing.T) {
	env := newTestEnv(t)
	id := env.createMuseum(t, "Musee d'Orsay", env.france)

	code, body := env.do(t, http.MethodGet, "/api/museum/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "France", body.Get("geo.country.name").String())
	assert.Equal(t, "FR", body.Get("geo.country.code").String())

	code, body = env.do(t, http.MethodGet, "/api/museum?title=orsay", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), body.Get("totalElements").Int())
	assert.Equal(t, "Paris", body.Get("content.0.geo.city").String())
	assert.Equal(t, "France", body.Get("content.0.geo.country.name").String())
}

func TestMuseumHandlers_UnknownCountry(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/museum", testToken, map[string]interface{}{
		"title":       "Belvedere",
		"description": "Baroque palace in Vienna",
		"photo":       testPhoto,
		"geo":         map[string]interface{}{"city": "Vienna", "country": map[string]string{"id": uuid.NewString()}},
	})
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CountryNotFound", body.Get("error.errors.0.reason").String())
}

func TestMuseumHandlers_UpdateMovesCountry(t *testing.T) {
	env := newTestEnv(t)
	id := env.createMuseum(t, "Belvedere", env.france)

	code, body := env.do(t, http.MethodPatch, "/api/museum", testToken, map[string]interface{}{
		"id":          id,
		"title":       "Belvedere",
		"description": "Baroque palace in Vienna",
		"photo":       testPhoto,
		"geo":         map[string]interface{}{"city": "Vienna", "country": map[string]string{"id": env.austria.ID.String()}},
	})
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, "Austria", body.Get("geo.country.name").String())
	assert.Equal(t, "Vienna", body.Get("geo.city").String())
}

func TestPaintingHandlers_ComposesArtistAndMuseum(t *testing.T) {
	env := newTestEnv(t)
	artistID := env.createArtist(t, "Claude Monet")
	museumID := env.createMuseum(t, "Musee d'Orsay", env.france)

	code, body := env.do(t, http.MethodPost, "/api/painting", testToken, map[string]interface{}{
		"title":       "Water Lilies",
		"description": "Series of oil paintings",
		"photo":       testPhoto,
		"artist":      map[string]string{"id": artistID},
		"museum":      map[string]string{"id": museumID},
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)
	paintingID := body.Get("id").String()
	assert.Equal(t, "Claude Monet", body.Get("artist.name").String())
	assert.Equal(t, "Musee d'Orsay", body.Get("museum.title").String())
	assert.Equal(t, "France", body.Get("museum.geo.country.name").String())

	code, body = env.do(t, http.MethodGet, "/api/painting/"+paintingID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Claude Monet", body.Get("artist.name").String())

	code, body = env.do(t, http.MethodGet, "/api/painting/author/"+artistID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), body.Get("totalElements").Int())
	assert.Equal(t, "Water Lilies", body.Get("content.0.title").String())
	assert.Equal(t, "Musee d'Orsay", body.Get("content.0.museum.title").String())
}

func TestPaintingHandlers_MuseumIsOptional(t *testing.T) {
	env := newTestEnv(t)
	artistID := env.createArtist(t, "Gustav Klimt")

	code, body := env.do(t, http.MethodPost, "/api/painting", testToken, map[string]interface{}{
		"title":       "The Kiss",
		"description": "Oil and gold leaf on canvas",
		"photo":       testPhoto,
		"artist":      map[string]string{"id": artistID},
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)
	assert.False(t, body.Get("museum").Exists())
}

func TestPaintingHandlers_MissingReferences(t *testing.T) {
	env := newTestEnv(t)
	artistID := env.createArtist(t, "Gustav Klimt")

	code, body := env.do(t, http.MethodPost, "/api/painting", testToken, map[string]interface{}{
		"title":       "The Kiss",
		"description": "Oil and gold leaf on canvas",
		"photo":       testPhoto,
		"artist":      map[string]string{"id": uuid.NewString()},
	})
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ArtistNotFound", body.Get("error.errors.0.reason").String())

	code, body = env.do(t, http.MethodPost, "/api/painting", testToken, map[string]interface{}{
		"title":       "The Kiss",
		"description": "Oil and gold leaf on canvas",
		"photo":       testPhoto,
		"artist":      map[string]string{"id": artistID},
		"museum":      map[string]string{"id": uuid.NewString()},
	})
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "MuseumNotFound", body.Get("error.errors.0.reason").String())
}

func TestCountryHandlers(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/country?sort=code", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), body.Get("totalElements").Int())
	assert.Equal(t, "AT", body.Get("content.0.code").String())

	code, body = env.do(t, http.MethodGet, "/api/country/"+env.france.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "France", body.Get("name").String())

	code, body = env.do(t, http.MethodGet, "/api/country/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CountryNotFound", body.Get("error.errors.0.reason").String())
}

func TestUserHandlers_CurrentUser(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodGet, "/api/user", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	code, body := env.do(t, http.MethodGet, "/api/user", testToken, nil)
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, "duke", body.Get("username").String())

	code, body = env.do(t, http.MethodPatch, "/api/user", testToken, map[string]string{
		"username":  "someone-else",
		"firstname": "Duke",
		"lastname":  "Ellington",
		"avatar":    testPhoto,
	})
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, "duke", body.Get("username").String())
	assert.Equal(t, "Ellington", body.Get("lastname").String())
	assert.Equal(t, testPhoto, body.Get("avatar").String())
}

func TestUserHandlers_Session(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body.Map())

	code, body = env.do(t, http.MethodGet, "/api/session", testToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "duke", body.Get("username").String())
	assert.Equal(t, "2024-01-01T10:00:00Z", body.Get("issuedAt").String())
	assert.Equal(t, "2024-01-01T11:00:00Z", body.Get("expiresAt").String())
}

func TestServer_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/sculpture", "", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RouteNotFound", body.Get("error.errors.0.reason").String())
}

func TestArtistHandlers_SanitizesEncodedMarkup(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/artist", testToken, map[string]string{
		"name":      "&lt;script&gt;alert(1)&lt;/script&gt; Monet",
		"biography": "&amp;lt;img src=x onerror=alert(1)&amp;gt;Painter of light",
		"photo":     testPhoto,
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)
	assert.NotContains(t, body.Get("name").String(), "<")
	assert.Contains(t, body.Get("name").String(), "Monet")
	assert.NotContains(t, body.Get("biography").String(), "<img")
	assert.Contains(t, body.Get("biography").String(), "Painter of light")
}

func TestArtistHandlers_PageBeyondRange(t *testing.T) {
	env := newTestEnv(t)
	env.createArtist(t, "Claude Monet")

	code, body := env.do(t, http.MethodGet, "/api/artist?page=1000000000000000000&size=10", "", nil)
	require.Equal(t, http.StatusBadRequest, code, body.Raw)
	assert.Equal(t, "InvalidPage", body.Get("error.errors.0.reason").String())

	code, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/artist?page=%d&size=%d", model.MaxPage, model.MaxPageSize), "", nil)
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, int64(1), body.Get("totalElements").Int())
	assert.True(t, body.Get("empty").Bool())
}

func TestArtistHandlers_UpdateWithoutPhotoKeepsStoredPhoto(t *testing.T) {
	env := newTestEnv(t)
	id := env.createArtist(t, "Claude Monet")

	code, body := env.do(t, http.MethodPatch, "/api/artist", testToken, map[string]string{
		"id":        id,
		"name":      "Oscar-Claude Monet",
		"biography": "Founder of French Impressionism",
	})
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, testPhoto, body.Get("photo").String())

	code, body = env.do(t, http.MethodPost, "/api/artist", testToken, map[string]string{
		"name":      "Edouard Manet",
		"biography": "Bridge from realism to impressionism",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "photo", body.Get("error.errors.0.reason").String())
}

func TestPaintingHandlers_UpdateWithoutPhotoKeepsStoredPhoto(t *testing.T) {
	env := newTestEnv(t)
	artistID := env.createArtist(t, "Gustav Klimt")

	code, body := env.do(t, http.MethodPost, "/api/painting", testToken, map[string]interface{}{
		"title":       "The Kiss",
		"description": "Oil and gold leaf on canvas",
		"photo":       testPhoto,
		"artist":      map[string]string{"id": artistID},
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)

	code, body = env.do(t, http.MethodPatch, "/api/painting", testToken, map[string]interface{}{
		"id":          body.Get("id").String(),
		"title":       "The Lovers",
		"description": "Oil and gold leaf on canvas",
		"artist":      map[string]string{"id": artistID},
	})
	require.Equal(t, http.StatusOK, code, body.Raw)
	assert.Equal(t, "The Lovers", body.Get("title").String())
	assert.Equal(t, testPhoto, body.Get("photo").String())
}
