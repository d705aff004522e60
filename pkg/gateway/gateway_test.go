package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/backend/artist"
	"github.com/platinummonkey/rococo/pkg/backend/geo"
	"github.com/platinummonkey/rococo/pkg/backend/museum"
	"github.com/platinummonkey/rococo/pkg/backend/painting"
	"github.com/platinummonkey/rococo/pkg/backend/userdata"
	"github.com/platinummonkey/rococo/pkg/middleware"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/rpc/rpctest"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/platinummonkey/rococo/pkg/storage/memory"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"google.golang.org/grpc"
)

const testToken = "token-duke"

// pngBytes is a PNG signature followed by an IHDR chunk header
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 17)...)

var testPhoto = "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

// staticVerifier accepts a fixed set of tokens
type staticVerifier map[string]*middleware.Principal

func (v staticVerifier) Verify(_ context.Context, raw string) (*middleware.Principal, error) {
	if p, ok := v[raw]; ok {
		return p, nil
	}
	return nil, middleware.ErrInvalidToken
}

type testEnv struct {
	handler http.Handler
	france  model.Country
	austria model.Country
}

// newTestEnv runs every backend in-process over bufconn on memory
// repositories and puts the gateway in front of them
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		france:  model.Country{ID: uuid.New(), Name: "France", Code: "FR"},
		austria: model.Country{ID: uuid.New(), Name: "Austria", Code: "AT"},
	}

	conn := rpctest.Serve(t, nil, func(s grpc.ServiceRegistrar) {
		rpc.RegisterArtistServer(s, artist.NewService(memory.NewArtistRepository(), nil))
		rpc.RegisterMuseumServer(s, museum.NewService(memory.NewMuseumRepository(), nil))
		rpc.RegisterPaintingServer(s, painting.NewService(memory.NewPaintingRepository(), nil))
		rpc.RegisterGeoServer(s, geo.NewService(memory.NewCountryRepository(env.france, env.austria)))
		rpc.RegisterUserdataServer(s, userdata.NewService(memory.NewUserRepository(), nil))
	})

	countries := NewCachedCountries(NewGeoClient(conn),
		storage.NewTieredCache[model.Country]("country", 16, time.Minute, nil, nil))
	env.handler = NewServer(Backends{
		Artists:   NewArtistClient(conn),
		Museums:   NewMuseumClient(conn),
		Paintings: NewPaintingClient(conn),
		Countries: countries,
		Users:     NewUserdataClient(conn),
	}, Options{
		Verifier: staticVerifier{testToken: {
			Username:  "duke",
			IssuedAt:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			ExpiresAt: time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
		}},
		Logger: observability.NewLogger(observability.ErrorLevel, io.Discard),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, gjson.Result) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec.Code, gjson.ParseBytes(rec.Body.Bytes())
}

func (e *testEnv) createArtist(t *testing.T, name string) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/artist", testToken, map[string]string{
		"name":      name,
		"biography": "Painter of light and water",
		"photo":     testPhoto,
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)
	return body.Get("id").String()
}

func (e *testEnv) createMuseum(t *testing.T, title string, country model.Country) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/museum", testToken, map[string]interface{}{
		"title":       title,
		"description": "A museum of impressionist art",
		"photo":       testPhoto,
		"geo":         map[string]interface{}{"city": "Paris", "country": map[string]string{"id": country.ID.String()}},
	})
	require.Equal(t, http.StatusCreated, code, body.Raw)
	return body.Get("id").String()
}
