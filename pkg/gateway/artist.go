package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/model"
)

// ArtistHandlers serves /api/artist
type ArtistHandlers struct {
	artists       ArtistService
	sanitizer     *Sanitizer
	maxPhotoBytes int
}

func NewArtistHandlers(artists ArtistService, sanitizer *Sanitizer, maxPhotoBytes int) *ArtistHandlers {
	return &ArtistHandlers{artists: artists, sanitizer: sanitizer, maxPhotoBytes: maxPhotoBytes}
}

// RegisterRoutes registers artist routes
func (h *ArtistHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/artist", h.listArtists).Methods("GET")
	router.HandleFunc("/api/artist/{id}", h.getArtist).Methods("GET")
	router.Handle("/api/artist", authed(h.createArtist)).Methods("POST")
	router.Handle("/api/artist", authed(h.updateArtist)).Methods("PATCH")
	router.Handle("/api/artist/{id}", authed(h.deleteArtist)).Methods("DELETE")
}

// listArtists handles GET /api/artist
func (h *ArtistHandlers) listArtists(w http.ResponseWriter, r *http.Request) {
	pageable, violations := httputil.ParsePageable(r, "name")
	if len(violations) > 0 {
		httputil.WriteBadRequest(w, r, "Invalid page request", violations...)
		return
	}

	page, err := h.artists.List(r.Context(), r.URL.Query().Get("name"), pageable)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, page)
}

// getArtist handles GET /api/artist/{id}
func (h *ArtistHandlers) getArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	artist, err := h.artists.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, artist)
}

// createArtist handles POST /api/artist
func (h *ArtistHandlers) createArtist(w http.ResponseWriter, r *http.Request) {
	var artist model.Artist
	if !httputil.ParseJSONOrError(w, r, &artist) {
		return
	}
	artist.ID = uuid.Nil
	if err := h.validate(&artist, false); err != nil {
		WriteError(w, r, err)
		return
	}

	created, err := h.artists.Create(r.Context(), &artist)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteCreated(w, created)
}

// updateArtist handles PATCH /api/artist
func (h *ArtistHandlers) updateArtist(w http.ResponseWriter, r *http.Request) {
	var artist model.Artist
	if !httputil.ParseJSONOrError(w, r, &artist) {
		return
	}
	if err := h.validate(&artist, true); err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := h.artists.Update(r.Context(), &artist)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// deleteArtist handles DELETE /api/artist/{id}
func (h *ArtistHandlers) deleteArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.artists.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ArtistHandlers) validate(artist *model.Artist, update bool) error {
	artist.Name = h.sanitizer.Text(artist.Name)
	artist.Biography = h.sanitizer.Text(artist.Biography)

	v := newValidator(h.maxPhotoBytes)
	if update {
		v.requiredID("id", artist.ID)
	}
	v.length("name", artist.Name, minNameLength, maxNameLength)
	v.length("biography", artist.Biography, minDescriptionLength, maxDescriptionLength)
	v.photo("photo", artist.Photo, !update)
	return v.err()
}
