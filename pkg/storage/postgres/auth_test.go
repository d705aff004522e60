package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRepository_Credentials(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthRepository(db, nil)
	ctx := context.Background()
	id, now := uuid.New(), time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO credential \(username, password_hash, enabled\) VALUES \(\$1, \$2, \$3\) RETURNING id, created_at`).
		WithArgs("duck", "$2a$hash", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), now))

	cred := &storage.Credential{Username: "duck", PasswordHash: "$2a$hash", Enabled: true}
	require.NoError(t, repo.CreateCredential(ctx, cred))
	assert.Equal(t, id, cred.ID)

	mock.ExpectQuery(`SELECT id, username, password_hash, enabled, created_at FROM credential WHERE username = \$1`).
		WithArgs("duck").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "enabled", "created_at"}).
			AddRow(id.String(), "duck", "$2a$hash", true, now))

	found, err := repo.FindCredential(ctx, "duck")
	require.NoError(t, err)
	assert.Equal(t, "$2a$hash", found.PasswordHash)
}

func TestAuthRepository_CodeIsSingleUse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthRepository(db, nil)
	ctx := context.Background()
	expires := time.Now().Add(5 * time.Minute).UTC()

	code := &storage.AuthorizationCode{
		Code:                "abc",
		ClientID:            "client",
		RedirectURI:         "http://front/authorized",
		Username:            "duck",
		Scope:               "openid",
		CodeChallenge:       "challenge",
		CodeChallengeMethod: "S256",
		ExpiresAt:           expires,
	}

	mock.ExpectExec(`INSERT INTO authorization_code`).
		WithArgs("abc", "client", "http://front/authorized", "duck", "openid", "", "challenge", "S256", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveCode(ctx, code))

	columns := []string{"code", "client_id", "redirect_uri", "username", "scope", "nonce", "code_challenge", "code_challenge_method", "expires_at"}
	mock.ExpectQuery(`DELETE FROM authorization_code WHERE code = \$1 RETURNING`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("abc", "client", "http://front/authorized", "duck", "openid", "", "challenge", "S256", expires))
	got, err := repo.ConsumeCode(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "challenge", got.CodeChallenge)

	mock.ExpectQuery(`DELETE FROM authorization_code WHERE code = \$1 RETURNING`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.ConsumeCode(ctx, "abc")
	assert.True(t, storage.IsNotFound(err))
}

func TestAuthRepository_RefreshTokens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthRepository(db, nil)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour).UTC()

	mock.ExpectExec(`INSERT INTO refresh_token`).
		WithArgs("hash", "client", "duck", "openid", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveRefreshToken(ctx, &storage.RefreshToken{
		TokenHash: "hash", ClientID: "client", Username: "duck", Scope: "openid", ExpiresAt: expires,
	}))

	mock.ExpectQuery(`DELETE FROM refresh_token WHERE token_hash = \$1`).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"token_hash", "client_id", "username", "scope", "expires_at"}).
			AddRow("hash", "client", "duck", "openid", expires))
	rt, err := repo.ConsumeRefreshToken(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, "duck", rt.Username)
}

func TestAuthRepository_PurgeExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthRepository(db, nil)
	now := time.Now()

	mock.ExpectExec(`DELETE FROM authorization_code WHERE expires_at < \$1`).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM refresh_token WHERE expires_at < \$1`).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.PurgeExpired(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
