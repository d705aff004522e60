package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, nil)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, username, firstname, lastname, avatar FROM users WHERE username = \$1`).
		WithArgs("duck").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "firstname", "lastname", "avatar"}).
			AddRow(id.String(), "duck", "Donald", "Duck", ""))

	user, err := repo.FindByUsername(context.Background(), "duck")

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Donald", user.Firstname)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, nil)

	mock.ExpectQuery(`INSERT INTO users \(username, firstname, lastname, avatar\)`).
		WithArgs("duck", "", "", "").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err := repo.Create(context.Background(), &model.User{Username: "duck"})
	assert.True(t, storage.IsConflict(err))
}

func TestUserRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, nil)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users SET firstname = \$2, lastname = \$3, avatar = \$4 WHERE username = \$1 RETURNING id`).
		WithArgs("duck", "Scrooge", "McDuck", "a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	user := &model.User{Username: "duck", Firstname: "Scrooge", Lastname: "McDuck", Avatar: "a"}
	require.NoError(t, repo.Update(context.Background(), user))
	assert.Equal(t, id, user.ID)

	mock.ExpectQuery(`UPDATE users`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	assert.True(t, storage.IsNotFound(repo.Update(context.Background(), &model.User{Username: "ghost"})))
}
