package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/model"
)

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes JSON and writes a 400 on failure
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, r, "Malformed request body",
			ErrorDetail{Reason: "MalformedBody", Message: err.Error()})
		return false
	}
	return true
}

// ParsePathUUID extracts a UUID path parameter
func ParsePathUUID(r *http.Request, key string) (uuid.UUID, error) {
	str := mux.Vars(r)[key]
	if str == "" {
		return uuid.Nil, fmt.Errorf("missing path parameter: %s", key)
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID for %s: %s", key, str)
	}
	return id, nil
}

// ParsePathUUIDOrError extracts a UUID path parameter and writes a 400 on failure
func ParsePathUUIDOrError(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := ParsePathUUID(r, key)
	if err != nil {
		WriteBadRequest(w, r, "Invalid path parameter",
			ErrorDetail{Reason: "InvalidId", Message: err.Error()})
		return uuid.Nil, false
	}
	return id, true
}

// ParseQueryInt extracts and parses an integer query parameter
func ParseQueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryString extracts a string query parameter
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// ParsePageable reads page, size and sort from the query string. Sort
// columns must appear in allowed; a nil allowed list accepts none.
func ParsePageable(r *http.Request, allowed ...string) (model.Pageable, []ErrorDetail) {
	var details []ErrorDetail
	p := model.Pageable{}

	page, err := ParseQueryInt(r, "page", 0)
	if err != nil || page < 0 || page > model.MaxPage {
		details = append(details, ErrorDetail{
			Reason:  "InvalidPage",
			Message: fmt.Sprintf("page must be between 0 and %d", model.MaxPage),
		})
	}
	p.Page = page

	size, err := ParseQueryInt(r, "size", model.DefaultPageSize)
	if err != nil || size < 1 || size > model.MaxPageSize {
		details = append(details, ErrorDetail{
			Reason:  "InvalidSize",
			Message: fmt.Sprintf("size must be between 1 and %d", model.MaxPageSize),
		})
	}
	p.Size = size

	if raw := r.URL.Query().Get("sort"); raw != "" {
		s, err := model.ParseSort(raw)
		switch {
		case err != nil:
			details = append(details, ErrorDetail{Reason: "InvalidSort", Message: err.Error()})
		case !contains(allowed, s.Column):
			details = append(details, ErrorDetail{
				Reason:  "InvalidSort",
				Message: fmt.Sprintf("sorting by %q is not supported", s.Column),
			})
		default:
			p.Sort = s
		}
	}

	if len(details) > 0 {
		return model.Pageable{}, details
	}
	return p, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
