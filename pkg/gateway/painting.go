package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/model"
)

// PaintingHandlers serves /api/painting
type PaintingHandlers struct {
	paintings     PaintingService
	composer      *Composer
	sanitizer     *Sanitizer
	maxPhotoBytes int
}

func NewPaintingHandlers(paintings PaintingService, composer *Composer, sanitizer *Sanitizer, maxPhotoBytes int) *PaintingHandlers {
	return &PaintingHandlers{
		paintings:     paintings,
		composer:      composer,
		sanitizer:     sanitizer,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// RegisterRoutes registers painting routes
func (h *PaintingHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/painting", h.listPaintings).Methods("GET")
	router.HandleFunc("/api/painting/author/{artistId}", h.listPaintingsByArtist).Methods("GET")
	router.HandleFunc("/api/painting/{id}", h.getPainting).Methods("GET")
	router.Handle("/api/painting", authed(h.createPainting)).Methods("POST")
	router.Handle("/api/painting", authed(h.updatePainting)).Methods("PATCH")
	router.Handle("/api/painting/{id}", authed(h.deletePainting)).Methods("DELETE")
}

// listPaintings handles GET /api/painting
func (h *PaintingHandlers) listPaintings(w http.ResponseWriter, r *http.Request) {
	pageable, violations := httputil.ParsePageable(r, "title")
	if len(violations) > 0 {
		httputil.WriteBadRequest(w, r, "Invalid page request", violations...)
		return
	}

	page, err := h.paintings.List(r.Context(), r.URL.Query().Get("title"), pageable)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.writePage(w, r, page)
}

// listPaintingsByArtist handles GET /api/painting/author/{artistId}
func (h *PaintingHandlers) listPaintingsByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, ok := httputil.ParsePathUUIDOrError(w, r, "artistId")
	if !ok {
		return
	}
	pageable, violations := httputil.ParsePageable(r, "title")
	if len(violations) > 0 {
		httputil.WriteBadRequest(w, r, "Invalid page request", violations...)
		return
	}

	page, err := h.paintings.ListByArtist(r.Context(), artistID, pageable)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.writePage(w, r, page)
}

func (h *PaintingHandlers) writePage(w http.ResponseWriter, r *http.Request, page *model.Page[model.Painting]) {
	if err := h.composer.Paintings(r.Context(), page.Content); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, page)
}

// getPainting handles GET /api/painting/{id}
func (h *PaintingHandlers) getPainting(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	painting, err := h.paintings.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.composer.Painting(r.Context(), painting); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, painting)
}

// createPainting handles POST /api/painting
func (h *PaintingHandlers) createPainting(w http.ResponseWriter, r *http.Request) {
	var painting model.Painting
	if !httputil.ParseJSONOrError(w, r, &painting) {
		return
	}
	painting.ID = uuid.Nil
	h.save(w, r, &painting, false)
}

// updatePainting handles PATCH /api/painting
func (h *PaintingHandlers) updatePainting(w http.ResponseWriter, r *http.Request) {
	var painting model.Painting
	if !httputil.ParseJSONOrError(w, r, &painting) {
		return
	}
	h.save(w, r, &painting, true)
}

func (h *PaintingHandlers) save(w http.ResponseWriter, r *http.Request, painting *model.Painting, update bool) {
	if err := h.validate(painting, update); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.composer.RequireReferences(r.Context(), painting); err != nil {
		WriteError(w, r, err)
		return
	}

	var (
		saved *model.Painting
		err   error
	)
	if update {
		saved, err = h.paintings.Update(r.Context(), painting)
	} else {
		saved, err = h.paintings.Create(r.Context(), painting)
	}
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.composer.Painting(r.Context(), saved); err != nil {
		WriteError(w, r, err)
		return
	}

	if update {
		httputil.WriteSuccess(w, saved)
		return
	}
	httputil.WriteCreated(w, saved)
}

// deletePainting handles DELETE /api/painting/{id}
func (h *PaintingHandlers) deletePainting(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.paintings.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *PaintingHandlers) validate(painting *model.Painting, update bool) error {
	painting.Title = h.sanitizer.Text(painting.Title)
	painting.Description = h.sanitizer.Text(painting.Description)

	v := newValidator(h.maxPhotoBytes)
	if update {
		v.requiredID("id", painting.ID)
	}
	v.length("title", painting.Title, minNameLength, maxNameLength)
	v.length("description", painting.Description, minDescriptionLength, maxDescriptionLength)
	v.requiredID("artist.id", painting.Artist.ID)
	if painting.Museum != nil && painting.Museum.ID == uuid.Nil {
		painting.Museum = nil
	}
	v.photo("photo", painting.Photo, !update)
	return v.err()
}
