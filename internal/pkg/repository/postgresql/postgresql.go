package postgresql

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// pgdriver reports the SQLSTATE in field 'C'.
const (
	fieldCode           = 'C'
	codeUniqueViolation = "23505"
)

// Config holds the connection parameters.
type Config struct {
	User       string
	Password   string
	Addr       string
	Name       string
	DisableTLS bool
	Debug      bool
}

// Database is the bun handle shared by every postgres repository.
type Database struct {
	*bun.DB
}

// NewDB opens a connection pool and checks it with a ping.
func NewDB(ctx context.Context, cfg Config) (*Database, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(cfg.Addr),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithInsecure(cfg.DisableTLS),
		pgdriver.WithTimeout(5*time.Second),
	))
	sqldb.SetMaxOpenConns(25)
	sqldb.SetMaxIdleConns(25)

	db := New(sqldb, cfg.Debug)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}

	return db, nil
}

// New wraps an already opened *sql.DB. Tests pass a sqlmock connection here.
func New(sqldb *sql.DB, debug bool) *Database {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	return &Database{DB: db}
}

// IsUniqueViolation reports whether err is a postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr interface{ Field(byte) string }
	if errors.As(err, &pgErr) {
		return pgErr.Field(fieldCode) == codeUniqueViolation
	}
	return false
}
