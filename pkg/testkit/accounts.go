package testkit

import (
	"context"
	"fmt"

	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// Accounts creates users that can sign in
type Accounts interface {
	Register(ctx context.Context, username, password string) error
}

// DBAccounts writes the credential and the profile directly, the way a
// completed registration leaves them
type DBAccounts struct {
	Auth  storage.AuthRepository
	Users storage.UserRepository
}

// Register implements Accounts
func (a DBAccounts) Register(ctx context.Context, username, password string) error {
	// MinCost keeps fixture setup fast; the server verifies any cost
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := a.Auth.CreateCredential(ctx, &storage.Credential{
		Username:     username,
		PasswordHash: string(hash),
		Enabled:      true,
	}); err != nil {
		return fmt.Errorf("failed to create credential for %s: %w", username, err)
	}
	if a.Users == nil {
		return nil
	}
	if err := a.Users.Create(ctx, &model.User{Username: username}); err != nil && !storage.IsConflict(err) {
		return fmt.Errorf("failed to create profile for %s: %w", username, err)
	}
	return nil
}
