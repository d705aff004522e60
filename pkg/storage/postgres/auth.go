package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// AuthRepository implements storage.AuthRepository
type AuthRepository struct {
	repository
}

var _ storage.AuthRepository = (*AuthRepository)(nil)

// NewAuthRepository creates the auth service repository
func NewAuthRepository(db *sqlx.DB, metrics *observability.Metrics) *AuthRepository {
	return &AuthRepository{repository{db: db, metrics: metrics, entity: "credential"}}
}

func (r *AuthRepository) CreateCredential(ctx context.Context, cred *storage.Credential) (err error) {
	ctx, done := r.observe(ctx, "create")
	defer done(&err)

	err = r.db.QueryRowxContext(ctx,
		"INSERT INTO credential (username, password_hash, enabled) VALUES ($1, $2, $3) RETURNING id, created_at",
		cred.Username, cred.PasswordHash, cred.Enabled,
	).Scan(&cred.ID, &cred.CreatedAt)
	return storage.MapError(err, r.entity)
}

func (r *AuthRepository) FindCredential(ctx context.Context, username string) (_ *storage.Credential, err error) {
	ctx, done := r.observe(ctx, "find")
	defer done(&err)

	var cred storage.Credential
	err = r.db.GetContext(ctx, &cred,
		"SELECT id, username, password_hash, enabled, created_at FROM credential WHERE username = $1", username)
	if err != nil {
		return nil, storage.MapError(err, r.entity)
	}
	return &cred, nil
}

func (r *AuthRepository) SaveCode(ctx context.Context, code *storage.AuthorizationCode) (err error) {
	ctx, done := r.observe(ctx, "save_code")
	defer done(&err)

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO authorization_code
		(code, client_id, redirect_uri, username, scope, nonce, code_challenge, code_challenge_method, expires_at)
		VALUES (:code, :client_id, :redirect_uri, :username, :scope, :nonce, :code_challenge, :code_challenge_method, :expires_at)`,
		code)
	return storage.MapError(err, "authorization_code")
}

func (r *AuthRepository) ConsumeCode(ctx context.Context, code string) (_ *storage.AuthorizationCode, err error) {
	ctx, done := r.observe(ctx, "consume_code")
	defer done(&err)

	var ac storage.AuthorizationCode
	err = r.db.GetContext(ctx, &ac, `DELETE FROM authorization_code WHERE code = $1
		RETURNING code, client_id, redirect_uri, username, scope, nonce, code_challenge, code_challenge_method, expires_at`, code)
	if err != nil {
		return nil, storage.MapError(err, "authorization_code")
	}
	return &ac, nil
}

func (r *AuthRepository) SaveRefreshToken(ctx context.Context, token *storage.RefreshToken) (err error) {
	ctx, done := r.observe(ctx, "save_refresh_token")
	defer done(&err)

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO refresh_token (token_hash, client_id, username, scope, expires_at)
		VALUES (:token_hash, :client_id, :username, :scope, :expires_at)`, token)
	return storage.MapError(err, "refresh_token")
}

func (r *AuthRepository) ConsumeRefreshToken(ctx context.Context, tokenHash string) (_ *storage.RefreshToken, err error) {
	ctx, done := r.observe(ctx, "consume_refresh_token")
	defer done(&err)

	var rt storage.RefreshToken
	err = r.db.GetContext(ctx, &rt, `DELETE FROM refresh_token WHERE token_hash = $1
		RETURNING token_hash, client_id, username, scope, expires_at`, tokenHash)
	if err != nil {
		return nil, storage.MapError(err, "refresh_token")
	}
	return &rt, nil
}

// PurgeExpired deletes codes and refresh tokens that expired before now
func (r *AuthRepository) PurgeExpired(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, done := r.observe(ctx, "purge")
	defer done(&err)

	var total int64
	for _, table := range []string{"authorization_code", "refresh_token"} {
		res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE expires_at < $1", now)
		if err != nil {
			return total, fmt.Errorf("failed to purge %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
