package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// UserRepository is an in-memory storage.UserRepository
type UserRepository struct {
	t *table[model.User]
}

var _ storage.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{t: &table[model.User]{
		entity:   "user",
		rows:     map[uuid.UUID]model.User{},
		id:       func(u model.User) uuid.UUID { return u.ID },
		setID:    func(u *model.User, id uuid.UUID) { u.ID = id },
		unique:   func(u model.User) []string { return []string{u.Username} },
		sortable: map[string]func(model.User) string{"username": func(u model.User) string { return u.Username }},
		fallback: "username",
	}}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, err := r.t.first(func(u model.User) bool { return u.Username == username })
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	return r.t.insert(user)
}

// Update replaces the profile with the same username
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	existing, err := r.FindByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	user.ID = existing.ID
	return r.t.update(*user)
}

// AuthRepository is an in-memory storage.AuthRepository
type AuthRepository struct {
	mu          sync.Mutex
	credentials map[string]storage.Credential
	codes       map[string]storage.AuthorizationCode
	tokens      map[string]storage.RefreshToken
}

var _ storage.AuthRepository = (*AuthRepository)(nil)

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{
		credentials: map[string]storage.Credential{},
		codes:       map[string]storage.AuthorizationCode{},
		tokens:      map[string]storage.RefreshToken{},
	}
}

func (r *AuthRepository) CreateCredential(_ context.Context, cred *storage.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.credentials[cred.Username]; ok {
		return fmt.Errorf("credential: %w", storage.ErrConflict)
	}
	cred.ID = uuid.New()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now().UTC()
	}
	r.credentials[cred.Username] = *cred
	return nil
}

func (r *AuthRepository) FindCredential(_ context.Context, username string) (*storage.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred, ok := r.credentials[username]
	if !ok {
		return nil, fmt.Errorf("credential: %w", storage.ErrNotFound)
	}
	return &cred, nil
}

func (r *AuthRepository) SaveCode(_ context.Context, code *storage.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[code.Code]; ok {
		return fmt.Errorf("authorization_code: %w", storage.ErrConflict)
	}
	r.codes[code.Code] = *code
	return nil
}

func (r *AuthRepository) ConsumeCode(_ context.Context, code string) (*storage.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ac, ok := r.codes[code]
	if !ok {
		return nil, fmt.Errorf("authorization_code: %w", storage.ErrNotFound)
	}
	delete(r.codes, code)
	return &ac, nil
}

func (r *AuthRepository) SaveRefreshToken(_ context.Context, token *storage.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token.TokenHash] = *token
	return nil
}

func (r *AuthRepository) ConsumeRefreshToken(_ context.Context, tokenHash string) (*storage.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[tokenHash]
	if !ok {
		return nil, fmt.Errorf("refresh_token: %w", storage.ErrNotFound)
	}
	delete(r.tokens, tokenHash)
	return &rt, nil
}

func (r *AuthRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, c := range r.codes {
		if c.ExpiresAt.Before(now) {
			delete(r.codes, k)
			n++
		}
	}
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}
