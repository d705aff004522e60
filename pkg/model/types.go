package model

import "github.com/google/uuid"

// Artist is a painter known to the catalogue
type Artist struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Biography string    `json:"biography"`
	Photo     string    `json:"photo,omitempty"`
}

// Country is seeded reference data owned by the geo service
type Country struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// Geo locates a museum
type Geo struct {
	City    string  `json:"city"`
	Country Country `json:"country"`
}

// Museum is an exhibition venue
type Museum struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Photo       string    `json:"photo,omitempty"`
	Geo         Geo       `json:"geo"`
}

// Painting is a work by an artist, optionally held by a museum.
// Backends only know the referenced ids; the gateway fills in the rest.
type Painting struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Photo       string    `json:"photo,omitempty"`
	Artist      Artist    `json:"artist"`
	Museum      *Museum   `json:"museum,omitempty"`
}

// User is a registered visitor profile kept by the userdata service
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Firstname string    `json:"firstname,omitempty"`
	Lastname  string    `json:"lastname,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
}
