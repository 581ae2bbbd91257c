package employee

import (
	"context"
	"database/sql"
	"time"

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

func (r Repository) Get(ctx context.Context, userID int64) (entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Employee{}, apperr.ErrEmployeeNotFound
	}
	if err != nil {
		return entity.Employee{}, apperr.Store(errors.Wrap(err, "selecting employee"), "selecting employee")
	}

	return detail, nil
}

// Create inserts the profile. The primary key on user_id rejects a second
// profile for the same user, including one inserted concurrently.
func (r Repository) Create(ctx context.Context, request entity.Employee) (entity.Employee, error) {
	request.CreatedAt = time.Now()

	_, err := r.NewInsert().
		Model(&request).
		Column("user_id", "name", "title", "current_task", "created_at").
		Exec(ctx)
	if postgresql.IsUniqueViolation(err) {
		return entity.Employee{}, apperr.ErrEmployeeExists
	}
	if err != nil {
		return entity.Employee{}, apperr.Store(errors.Wrap(err, "creating employee"), "creating employee")
	}

	return request, nil
}

// Update replaces name, title and current_task of an existing profile.
func (r Repository) Update(ctx context.Context, request entity.Employee) (entity.Employee, error) {
	request.UpdatedAt = time.Now()

	res, err := r.NewUpdate().
		Model(&request).
		Column("name", "title", "current_task", "updated_at").
		Where("user_id = ?", request.UserID).
		Exec(ctx)
	if err != nil {
		return entity.Employee{}, apperr.Store(errors.Wrap(err, "updating employee"), "updating employee")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return entity.Employee{}, apperr.Store(errors.Wrap(err, "updating employee"), "updating employee")
	}
	if n == 0 {
		return entity.Employee{}, apperr.ErrEmployeeNotFound
	}

	return request, nil
}
