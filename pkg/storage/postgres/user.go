package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Firstname string    `db:"firstname"`
	Lastname  string    `db:"lastname"`
	Avatar    string    `db:"avatar"`
}

// UserRepository implements storage.UserRepository
type UserRepository struct {
	repository
}

var _ storage.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a user repository
func NewUserRepository(db *sqlx.DB, metrics *observability.Metrics) *UserRepository {
	return &UserRepository{repository{db: db, metrics: metrics, entity: "user"}}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (_ *model.User, err error) {
	ctx, done := r.observe(ctx, "find")
	defer done(&err)

	var row userRow
	err = r.db.GetContext(ctx, &row,
		"SELECT id, username, firstname, lastname, avatar FROM users WHERE username = $1", username)
	if err != nil {
		return nil, storage.MapError(err, r.entity)
	}
	return &model.User{
		ID:        row.ID,
		Username:  row.Username,
		Firstname: row.Firstname,
		Lastname:  row.Lastname,
		Avatar:    row.Avatar,
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (err error) {
	ctx, done := r.observe(ctx, "create")
	defer done(&err)

	err = r.db.QueryRowxContext(ctx,
		"INSERT INTO users (username, firstname, lastname, avatar) VALUES ($1, $2, $3, $4) RETURNING id",
		user.Username, user.Firstname, user.Lastname, user.Avatar,
	).Scan(&user.ID)
	return storage.MapError(err, r.entity)
}

// Update changes the profile fields of the user with the given username
func (r *UserRepository) Update(ctx context.Context, user *model.User) (err error) {
	ctx, done := r.observe(ctx, "update")
	defer done(&err)

	err = r.db.QueryRowxContext(ctx,
		"UPDATE users SET firstname = $2, lastname = $3, avatar = $4 WHERE username = $1 RETURNING id",
		user.Username, user.Firstname, user.Lastname, user.Avatar,
	).Scan(&user.ID)
	return storage.MapError(err, r.entity)
}
