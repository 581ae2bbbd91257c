package entity

import (
	"github.com/uptrace/bun"
)

// Entrance is one attendance interval. LeaveTimestamp is nil while the
// interval is open; at most one open interval exists per user.
type Entrance struct {
	bun.BaseModel `bun:"table:entrances,alias:n"`

	ID             int64  `json:"-"               bun:"id,pk,autoincrement"`
	UserID         int64  `json:"-"               bun:"user_id,notnull"`
	EnterTimestamp int64  `json:"enter_timestamp" bun:"enter_timestamp,notnull"`
	LeaveTimestamp *int64 `json:"leave_timestamp" bun:"leave_timestamp"`
}

// Open reports whether the interval has not been closed yet.
func (e Entrance) Open() bool {
	return e.LeaveTimestamp == nil
}
