package session

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"presence/backend/internal/pkg/apperr"
)

const keyPrefix = "session:"

type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

func key(id string) string {
	return keyPrefix + id
}

// Save stores the session with the same lifetime as the token carrying it.
func (r Repository) Save(ctx context.Context, id string, userID int64, ttl time.Duration) error {
	err := r.client.Set(ctx, key(id), strconv.FormatInt(userID, 10), ttl).Err()
	if err != nil {
		return apperr.Store(errors.Wrap(err, "saving session"), "saving session")
	}

	return nil
}

func (r Repository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return false, apperr.Store(errors.Wrap(err, "checking session"), "checking session")
	}

	return n > 0, nil
}

func (r Repository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return apperr.Store(errors.Wrap(err, "deleting session"), "deleting session")
	}

	return nil
}
