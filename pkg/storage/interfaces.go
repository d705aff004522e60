package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
)

// ArtistRepository persists artists
type ArtistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Artist, error)
	FindAll(ctx context.Context, name string, pageable model.Pageable) (model.Page[model.Artist], error)
	Create(ctx context.Context, artist *model.Artist) error
	Update(ctx context.Context, artist *model.Artist) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MuseumRepository persists museums. Only the country id of Geo is stored.
type MuseumRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Museum, error)
	FindAll(ctx context.Context, title string, pageable model.Pageable) (model.Page[model.Museum], error)
	Create(ctx context.Context, museum *model.Museum) error
	Update(ctx context.Context, museum *model.Museum) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaintingRepository persists paintings. Only the artist and museum ids are stored.
type PaintingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Painting, error)
	FindAll(ctx context.Context, title string, pageable model.Pageable) (model.Page[model.Painting], error)
	FindByArtist(ctx context.Context, artistID uuid.UUID, pageable model.Pageable) (model.Page[model.Painting], error)
	Create(ctx context.Context, painting *model.Painting) error
	Update(ctx context.Context, painting *model.Painting) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CountryRepository reads seeded countries
type CountryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Country, error)
	FindAll(ctx context.Context, name string, pageable model.Pageable) (model.Page[model.Country], error)
}

// UserRepository persists user profiles
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// Credential is a registered login of the auth service
type Credential struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Enabled      bool      `db:"enabled"`
	CreatedAt    time.Time `db:"created_at"`
}

// AuthorizationCode is a pending single-use code of the authorization code grant
type AuthorizationCode struct {
	Code                string    `db:"code"`
	ClientID            string    `db:"client_id"`
	RedirectURI         string    `db:"redirect_uri"`
	Username            string    `db:"username"`
	Scope               string    `db:"scope"`
	Nonce               string    `db:"nonce"`
	CodeChallenge       string    `db:"code_challenge"`
	CodeChallengeMethod string    `db:"code_challenge_method"`
	ExpiresAt           time.Time `db:"expires_at"`
}

// RefreshToken is an issued refresh token. Only its hash is stored.
type RefreshToken struct {
	TokenHash string    `db:"token_hash"`
	ClientID  string    `db:"client_id"`
	Username  string    `db:"username"`
	Scope     string    `db:"scope"`
	ExpiresAt time.Time `db:"expires_at"`
}

// AuthRepository persists credentials, codes and refresh tokens
type AuthRepository interface {
	CreateCredential(ctx context.Context, cred *Credential) error
	FindCredential(ctx context.Context, username string) (*Credential, error)
	SaveCode(ctx context.Context, code *AuthorizationCode) error
	// ConsumeCode removes and returns the code, so it can be redeemed once
	ConsumeCode(ctx context.Context, code string) (*AuthorizationCode, error)
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	ConsumeRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
