package attendance

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

// OpenEntrance inserts an open interval for userID. The partial unique index
// entrances_one_open_per_user makes the insert a no-op when the user already
// has one, so concurrent calls cannot both succeed.
func (r Repository) OpenEntrance(ctx context.Context, userID, enterTimestamp int64) (entity.Entrance, error) {
	query := `
		INSERT INTO entrances (user_id, enter_timestamp)
		VALUES (?, ?)
		ON CONFLICT (user_id) WHERE leave_timestamp IS NULL DO NOTHING
		RETURNING id, enter_timestamp
	`

	detail := entity.Entrance{UserID: userID}

	err := r.QueryRowContext(ctx, query, userID, enterTimestamp).Scan(&detail.ID, &detail.EnterTimestamp)
	if errors.Is(err, sql.ErrNoRows) || postgresql.IsUniqueViolation(err) {
		return entity.Entrance{}, apperr.ErrAlreadyPresent
	}
	if err != nil {
		return entity.Entrance{}, apperr.Store(errors.Wrap(err, "inserting entrance"), "opening entrance")
	}

	return detail, nil
}

// CloseEntrance sets leave_timestamp on the open interval of userID. The
// update takes the row lock, so of two concurrent calls only the first
// matches leave_timestamp IS NULL. GREATEST keeps leave >= enter.
func (r Repository) CloseEntrance(ctx context.Context, userID, leaveTimestamp int64) (entity.Entrance, error) {
	query := `
		UPDATE entrances
		SET leave_timestamp = GREATEST(?, enter_timestamp)
		WHERE user_id = ? AND leave_timestamp IS NULL
		RETURNING id, enter_timestamp, leave_timestamp
	`

	detail := entity.Entrance{UserID: userID}

	err := r.QueryRowContext(ctx, query, leaveTimestamp, userID).Scan(&detail.ID, &detail.EnterTimestamp, &detail.LeaveTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Entrance{}, apperr.ErrNotPresent
	}
	if err != nil {
		return entity.Entrance{}, apperr.Store(errors.Wrap(err, "closing entrance"), "closing entrance")
	}

	return detail, nil
}

// ListPresent returns the profiles of everyone except excludeUserID with an
// open interval, ordered by user id.
func (r Repository) ListPresent(ctx context.Context, excludeUserID int64) ([]entity.Employee, error) {
	query := `
		SELECT
			e.user_id,
			e.name,
			e.title,
			e.current_task
		FROM employees AS e
		JOIN entrances AS n ON n.user_id = e.user_id AND n.leave_timestamp IS NULL
		WHERE e.user_id <> ?
		ORDER BY e.user_id
	`

	list := make([]entity.Employee, 0)

	if err := r.NewRaw(query, excludeUserID).Scan(ctx, &list); err != nil {
		return nil, apperr.Store(errors.Wrap(err, "selecting present employees"), "listing present employees")
	}

	return list, nil
}
