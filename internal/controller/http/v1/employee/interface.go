package employee

import (
	"context"

	"presence/backend/internal/entity"
)

type Employee interface {
	Get(ctx context.Context, userID int64) (entity.Employee, error)
	Create(ctx context.Context, request entity.Employee) (entity.Employee, error)
	Update(ctx context.Context, request entity.Employee) (entity.Employee, error)
}
