package httputil

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{name: "valid JSON", body: `{"name": "test"}`},
		{name: "invalid JSON", body: `{invalid}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tt.body))
			var dest map[string]string

			err := ParseJSON(req, &dest)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "test", dest["name"])
			}
		})
	}
}

func TestParseJSONOrError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/artist", bytes.NewBufferString(`nope`))
	w := httptest.NewRecorder()
	var dest map[string]string

	ok := ParseJSONOrError(w, req, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MalformedBody", gjson.Get(w.Body.String(), "error.errors.0.reason").String())
}

func TestParsePathUUID(t *testing.T) {
	id := uuid.New()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()})
	got, err := ParsePathUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	_, err = ParsePathUUID(req, "id")
	assert.ErrorContains(t, err, "invalid UUID")

	_, err = ParsePathUUID(httptest.NewRequest(http.MethodGet, "/", nil), "id")
	assert.ErrorContains(t, err, "missing path parameter")
}

func TestParsePathUUIDOrError(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/museum/x", nil), map[string]string{"id": "x"})
	w := httptest.NewRecorder()

	_, ok := ParsePathUUIDOrError(w, req, "id")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&bad=x", nil)

	v, err := ParseQueryInt(req, "page", 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = ParseQueryInt(req, "missing", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = ParseQueryInt(req, "bad", 0)
	assert.Error(t, err)
}

func TestParsePageable(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       model.Pageable
		wantReason []string
	}{
		{
			name:  "defaults",
			query: "",
			want:  model.Pageable{Page: 0, Size: model.DefaultPageSize},
		},
		{
			name:  "explicit",
			query: "page=2&size=5&sort=name,desc",
			want:  model.Pageable{Page: 2, Size: 5, Sort: model.Sort{Column: "name", Direction: model.Desc}},
		},
		{
			name:       "unknown sort column",
			query:      "sort=biography",
			wantReason: []string{"InvalidSort"},
		},
		{
			name:       "page past the last addressable offset",
			query:      "page=1000000000000000000&size=10",
			wantReason: []string{"InvalidPage"},
		},
		{
			name:  "last addressable page",
			query: fmt.Sprintf("page=%d&size=%d", model.MaxPage, model.MaxPageSize),
			want:  model.Pageable{Page: model.MaxPage, Size: model.MaxPageSize},
		},
		{
			name:       "every violation reported",
			query:      "page=-1&size=500&sort=name,sideways",
			wantReason: []string{"InvalidPage", "InvalidSize", "InvalidSort"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/artist?"+tt.query, nil)

			got, details := ParsePageable(req, "name")

			if len(tt.wantReason) == 0 {
				assert.Empty(t, details)
				assert.Equal(t, tt.want, got)
				return
			}
			var reasons []string
			for _, d := range details {
				reasons = append(reasons, d.Reason)
			}
			assert.Equal(t, tt.wantReason, reasons)
		})
	}
}
