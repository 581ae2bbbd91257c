package entity

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// User is the identity anchor. It is never modified after registration.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `json:"id"         bun:"id,pk,autoincrement"`
	Username     string    `json:"username"   bun:"username,notnull"`
	PasswordHash string    `json:"-"          bun:"password,notnull"`
	CreatedAt    time.Time `json:"-"          bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ErrUserNotFound is returned by user lookups that match nothing.
var ErrUserNotFound = errors.New("user not found")
