package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/model"
)

// MuseumHandlers serves /api/museum
type MuseumHandlers struct {
	museums       MuseumService
	composer      *Composer
	sanitizer     *Sanitizer
	maxPhotoBytes int
}

func NewMuseumHandlers(museums MuseumService, composer *Composer, sanitizer *Sanitizer, maxPhotoBytes int) *MuseumHandlers {
	return &MuseumHandlers{
		museums:       museums,
		composer:      composer,
		sanitizer:     sanitizer,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// RegisterRoutes registers museum routes
func (h *MuseumHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/museum", h.listMuseums).Methods("GET")
	router.HandleFunc("/api/museum/{id}", h.getMuseum).Methods("GET")
	router.Handle("/api/museum", authed(h.createMuseum)).Methods("POST")
	router.Handle("/api/museum", authed(h.updateMuseum)).Methods("PATCH")
	router.Handle("/api/museum/{id}", authed(h.deleteMuseum)).Methods("DELETE")
}

// listMuseums handles GET /api/museum
func (h *MuseumHandlers) listMuseums(w http.ResponseWriter, r *http.Request) {
	pageable, violations := httputil.ParsePageable(r, "title")
	if len(violations) > 0 {
		httputil.WriteBadRequest(w, r, "Invalid page request", violations...)
		return
	}

	page, err := h.museums.List(r.Context(), r.URL.Query().Get("title"), pageable)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.composer.Museums(r.Context(), page.Content); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, page)
}

// getMuseum handles GET /api/museum/{id}
func (h *MuseumHandlers) getMuseum(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	museum, err := h.museums.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.composer.Museum(r.Context(), museum); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, museum)
}

// createMuseum handles POST /api/museum
func (h *MuseumHandlers) createMuseum(w http.ResponseWriter, r *http.Request) {
	var museum model.Museum
	if !httputil.ParseJSONOrError(w, r, &museum) {
		return
	}
	museum.ID = uuid.Nil
	h.save(w, r, &museum, false)
}

// updateMuseum handles PATCH /api/museum
func (h *MuseumHandlers) updateMuseum(w http.ResponseWriter, r *http.Request) {
	var museum model.Museum
	if !httputil.ParseJSONOrError(w, r, &museum) {
		return
	}
	h.save(w, r, &museum, true)
}

func (h *MuseumHandlers) save(w http.ResponseWriter, r *http.Request, museum *model.Museum, update bool) {
	if err := h.validate(museum, update); err != nil {
		WriteError(w, r, err)
		return
	}

	country, err := h.composer.RequireCountry(r.Context(), museum.Geo.Country.ID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var saved *model.Museum
	if update {
		saved, err = h.museums.Update(r.Context(), museum)
	} else {
		saved, err = h.museums.Create(r.Context(), museum)
	}
	if err != nil {
		WriteError(w, r, err)
		return
	}
	saved.Geo.Country = *country

	if update {
		httputil.WriteSuccess(w, saved)
		return
	}
	httputil.WriteCreated(w, saved)
}

// deleteMuseum handles DELETE /api/museum/{id}
func (h *MuseumHandlers) deleteMuseum(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.museums.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *MuseumHandlers) validate(museum *model.Museum, update bool) error {
	museum.Title = h.sanitizer.Text(museum.Title)
	museum.Description = h.sanitizer.Text(museum.Description)
	museum.Geo.City = h.sanitizer.Text(museum.Geo.City)

	v := newValidator(h.maxPhotoBytes)
	if update {
		v.requiredID("id", museum.ID)
	}
	v.length("title", museum.Title, minNameLength, maxNameLength)
	v.length("description", museum.Description, minDescriptionLength, maxDescriptionLength)
	v.length("geo.city", museum.Geo.City, minNameLength, maxNameLength)
	v.requiredID("geo.country.id", museum.Geo.Country.ID)
	v.photo("photo", museum.Photo, !update)
	return v.err()
}
