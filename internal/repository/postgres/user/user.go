package user

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/apperr"
	"presence/backend/internal/pkg/repository/postgresql"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) Create(ctx context.Context, user entity.User) (entity.User, error) {
	_, err := r.NewInsert().
		Model(&user).
		Column("username", "password").
		Returning("id, created_at").
		Exec(ctx, &user.ID, &user.CreatedAt)
	if postgresql.IsUniqueViolation(err) {
		return entity.User{}, apperr.ErrUsernameTaken
	}
	if err != nil {
		return entity.User{}, apperr.Store(errors.Wrap(err, "creating user"), "creating user")
	}

	return user, nil
}

func (r Repository) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, entity.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, apperr.Store(errors.Wrap(err, "selecting user by username"), "selecting user")
	}

	return detail, nil
}

func (r Repository) GetByID(ctx context.Context, id int64) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, entity.ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, apperr.Store(errors.Wrap(err, "selecting user by id"), "selecting user")
	}

	return detail, nil
}
