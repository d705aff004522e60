package rpc

import (
	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
)

// IDRequest addresses one entity
type IDRequest struct {
	ID uuid.UUID `json:"id"`
}

// ListRequest asks for a page filtered by a partial name or title
type ListRequest struct {
	Query    string         `json:"query,omitempty"`
	Pageable model.Pageable `json:"pageable"`
}

// ListByArtistRequest asks for the paintings of one artist
type ListByArtistRequest struct {
	ArtistID uuid.UUID      `json:"artistId"`
	Pageable model.Pageable `json:"pageable"`
}

// UsernameRequest addresses one user profile
type UsernameRequest struct {
	Username string `json:"username"`
}

type (
	ArtistPage   = model.Page[model.Artist]
	MuseumPage   = model.Page[model.Museum]
	PaintingPage = model.Page[model.Painting]
	CountryPage  = model.Page[model.Country]
)
