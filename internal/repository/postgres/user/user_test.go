package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/apperr"
	"presence/backend/internal/pkg/repository/postgresql"
)

type fakePgError map[byte]string

func (e fakePgError) Error() string       { return e['M'] }
func (e fakePgError) Field(k byte) string { return e[k] }

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	return NewRepository(postgresql.New(sqldb, false)), mock
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`INSERT INTO "users" .*'alice'.* RETURNING id, created_at`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), created))

		got, err := repo.Create(ctx, entity.User{Username: "alice", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.ID)
		assert.Equal(t, created, got.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(fakePgError{'C': "23505"})

		_, err := repo.Create(ctx, entity.User{Username: "alice", PasswordHash: "hash"})
		assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
	})

	t.Run("store failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(errors.New("broken pipe"))

		_, err := repo.Create(ctx, entity.User{Username: "alice", PasswordHash: "hash"})
		var ae *apperr.Error
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, apperr.CodeStore, ae.Code)
	})
}

func TestRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT .* FROM "users" AS "u" WHERE \(username = 'alice'\)`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}).AddRow(int64(4), "alice", "hash"))

		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}))

		_, err := repo.GetByUsername(ctx, "bob")
		assert.ErrorIs(t, err, entity.ErrUserNotFound)
	})
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT .* FROM "users" AS "u" WHERE \(id = 9\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
