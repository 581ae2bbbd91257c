package auth

import (
	"context"

	"presence/backend/internal/entity"
)

type Auth interface {
	Register(ctx context.Context, username, password string) (entity.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
}
