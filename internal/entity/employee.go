package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Employee is the profile attached one-to-one to a User.
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	UserID      int64     `json:"-"            bun:"user_id,pk"`
	Name        string    `json:"name"         bun:"name,notnull"`
	Title       string    `json:"title"        bun:"title,notnull"`
	CurrentTask string    `json:"current_task" bun:"current_task,notnull"`
	CreatedAt   time.Time `json:"-"            bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `json:"-"            bun:"updated_at,nullzero"`
}
