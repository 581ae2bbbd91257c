package attendance

import (
	"context"

	"presence/backend/internal/entity"
)

type Engine interface {
	Enter(ctx context.Context, userID int64) (entity.Entrance, error)
	Leave(ctx context.Context, userID int64) (entity.Entrance, error)
	CurrentlyPresent(ctx context.Context, userID int64) ([]entity.Employee, error)
}

type Employee interface {
	Get(ctx context.Context, userID int64) (entity.Employee, error)
}
