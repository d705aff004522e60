package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		code   codes.Code
		target interface{}
	}{
		{codes.NotFound, new(*NotFoundError)},
		{codes.AlreadyExists, new(*ConflictError)},
		{codes.InvalidArgument, new(*BadRequestError)},
		{codes.Unavailable, new(*UnavailableError)},
		{codes.DeadlineExceeded, new(*UnavailableError)},
		{codes.Internal, new(*UnknownError)},
		{codes.PermissionDenied, new(*UnknownError)},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := translate(status.Error(tt.code, "boom"), "artist", "artist", "42")
			assert.True(t, errors.As(err, tt.target), "got %T", err)
		})
	}

	assert.NoError(t, translate(nil, "artist", "artist", ""))

	var unknown *UnknownError
	assert.True(t, errors.As(translate(errors.New("plain"), "geo", "country", ""), &unknown))
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &ValidationError{}, http.StatusBadRequest, "400 BAD_REQUEST"},
		{"bad request", &BadRequestError{Message: "nope"}, http.StatusBadRequest, "400 BAD_REQUEST"},
		{"not found", &NotFoundError{Entity: "museum", ID: "1"}, http.StatusNotFound, "404 NOT_FOUND"},
		{"conflict", &ConflictError{Entity: "museum", Message: "dup"}, http.StatusConflict, "409 CONFLICT"},
		{"unavailable", &UnavailableError{Service: "museum", Err: errors.New("down")}, http.StatusBadGateway, "502 BAD_GATEWAY"},
		{"unknown", &UnknownError{Service: "museum", Err: errors.New("?")}, http.StatusInternalServerError, "500 INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/museum", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.code, gjson.Get(rec.Body.String(), "error.code").String())
		})
	}
}

// downArtists fails every call as an unreachable backend would
type downArtists struct {
	ArtistService
}

func (downArtists) Get(context.Context, uuid.UUID) (*model.Artist, error) {
	return nil, translate(status.Error(codes.Unavailable, "connection refused"), "artist", "artist", "")
}

func TestArtistHandlers_BackendUnavailable(t *testing.T) {
	srv := NewServer(Backends{Artists: downArtists{}}, Options{Verifier: staticVerifier{}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artist/"+uuid.NewString(), nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "artist service unavailable", gjson.Get(rec.Body.String(), "error.message").String())
}
