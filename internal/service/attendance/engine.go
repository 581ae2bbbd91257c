// Package attendance implements the enter/leave state machine on top of a
// store that enforces at most one open interval per user.
package attendance

import (
	"context"
	"time"

	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/logger"
)

type Store interface {
	OpenEntrance(ctx context.Context, userID, enterTimestamp int64) (entity.Entrance, error)
	CloseEntrance(ctx context.Context, userID, leaveTimestamp int64) (entity.Entrance, error)
	ListPresent(ctx context.Context, excludeUserID int64) ([]entity.Employee, error)
}

type Engine struct {
	store Store
	now   func() time.Time
	log   *logger.Logger
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of interval timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store Store, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enter opens an interval for userID stamped with the current second.
// It fails with apperr.ErrAlreadyPresent when one is already open.
func (e *Engine) Enter(ctx context.Context, userID int64) (entity.Entrance, error) {
	ts := e.now().Unix()

	detail, err := e.store.OpenEntrance(ctx, userID, ts)
	if err != nil {
		e.log.Debug("enter rejected", "user_id", userID, "error", err)
		return entity.Entrance{}, err
	}

	e.log.Info("employee entered", "user_id", userID, "enter_timestamp", detail.EnterTimestamp)

	return detail, nil
}

// Leave closes the open interval of userID. It fails with
// apperr.ErrNotPresent when there is none.
func (e *Engine) Leave(ctx context.Context, userID int64) (entity.Entrance, error) {
	ts := e.now().Unix()

	detail, err := e.store.CloseEntrance(ctx, userID, ts)
	if err != nil {
		e.log.Debug("leave rejected", "user_id", userID, "error", err)
		return entity.Entrance{}, err
	}

	e.log.Info("employee left", "user_id", userID,
		"enter_timestamp", detail.EnterTimestamp, "leave_timestamp", *detail.LeaveTimestamp)

	return detail, nil
}

// CurrentlyPresent lists everyone with an open interval except userID.
func (e *Engine) CurrentlyPresent(ctx context.Context, userID int64) ([]entity.Employee, error) {
	return e.store.ListPresent(ctx, userID)
}
