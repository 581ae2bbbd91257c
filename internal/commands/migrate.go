package commands

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"presence/backend/internal/pkg/logger"
	"presence/backend/internal/pkg/repository/postgresql"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id bigserial primary key,
            username text not null,
            password text not null,
            created_at timestamptz not null default now(),
            CONSTRAINT users_username_key UNIQUE (username)
        );`,
	},
	{
		Index:       2,
		Description: "Create table: employees.",
		Query: `
        CREATE TABLE IF NOT EXISTS employees (
            user_id bigint primary key references users(id) on delete cascade,
            name varchar(255) not null,
            title varchar(255) not null default '',
            current_task varchar(255) not null default '',
            created_at timestamptz not null default now(),
            updated_at timestamptz
        );`,
	},
	{
		Index:       3,
		Description: "Create table: entrances.",
		Query: `
        CREATE TABLE IF NOT EXISTS entrances (
            id bigserial primary key,
            user_id bigint not null references users(id) on delete cascade,
            enter_timestamp bigint not null,
            leave_timestamp bigint,
            CONSTRAINT entrances_leave_after_enter CHECK (leave_timestamp IS NULL OR leave_timestamp >= enter_timestamp)
        );`,
	},
	{
		Index:       4,
		Description: "Create index: one open entrance per user.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS entrances_one_open_per_user
            ON entrances (user_id) WHERE leave_timestamp IS NULL;`,
	},
	{
		Index:       5,
		Description: "Create index: entrances by user and time.",
		Query: `
        CREATE INDEX IF NOT EXISTS entrances_user_id_enter_timestamp_idx
            ON entrances (user_id, enter_timestamp);`,
	},
}

// Version returns the index of the last migration.
func Version() int {
	return scheme[len(scheme)-1].Index
}

// MigrateUP applies every scheme newer than the version recorded in
// schema_migrations. A migration that failed earlier (dirty) is retried
// first. The failing query's error is stored next to the version.
func MigrateUP(ctx context.Context, db *postgresql.Database, log *logger.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text)
	`); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var (
		version int
		dirty   bool
		er      *string
	)

	err := db.QueryRowContext(ctx, "SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.Wrap(err, "reading schema_migrations")
		}
		if _, err = db.ExecContext(ctx, "INSERT INTO schema_migrations (version, dirty) VALUES (0, false)"); err != nil {
			return errors.Wrap(err, "initialising schema_migrations")
		}
		version, dirty = 0, false
	}

	if dirty {
		log.Warn("retrying dirty migration", "version", version)
		version--
	}

	for _, s := range scheme {
		if s.Index <= version {
			continue
		}

		if _, err = db.ExecContext(ctx, s.Query); err != nil {
			if _, uerr := db.ExecContext(ctx,
				"UPDATE schema_migrations SET error = ?, version = ?, dirty = true", err.Error(), s.Index); uerr != nil {
				return errors.Wrap(uerr, "recording migration failure")
			}
			return errors.Wrapf(err, "migrate error version: %d", s.Index)
		}

		if _, err = db.ExecContext(ctx,
			"UPDATE schema_migrations SET version = ?, dirty = false, error = null", s.Index); err != nil {
			return errors.Wrap(err, "recording migration")
		}

		log.Info("migration applied", "version", s.Index, "description", s.Description)
	}

	return nil
}
