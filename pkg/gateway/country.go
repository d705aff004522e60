package gateway

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
)

// CountryHandlers serves the read-only /api/country
type CountryHandlers struct {
	countries CountryService
}

func NewCountryHandlers(countries CountryService) *CountryHandlers {
	return &CountryHandlers{countries: countries}
}

// RegisterRoutes registers country routes
func (h *CountryHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/country", h.listCountries).Methods("GET")
	router.HandleFunc("/api/country/{id}", h.getCountry).Methods("GET")
}

// listCountries handles GET /api/country
func (h *CountryHandlers) listCountries(w http.ResponseWriter, r *http.Request) {
	pageable, violations := httputil.ParsePageable(r, "name", "code")
	if len(violations) > 0 {
		httputil.WriteBadRequest(w, r, "Invalid page request", violations...)
		return
	}

	page, err := h.countries.List(r.Context(), r.URL.Query().Get("name"), pageable)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, page)
}

// getCountry handles GET /api/country/{id}
func (h *CountryHandlers) getCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	country, err := h.countries.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, country)
}
