package auth

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DefaultDatabaseDSN is a shared cache sqlite file next to the binary
const DefaultDatabaseDSN = "file:userauth.db?cache=shared"

// OpenDatabase opens dsn with the matching bun dialect. postgres:// and
// postgresql:// DSNs use pgdriver, anything else is handed to sqlite.
func OpenDatabase(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = DefaultDatabaseDSN
	}

	if isPostgresDSN(dsn) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open sqlite database").
			WithMetadata(map[string]any{"dsn": dsn})
	}

	// sqlite serializes writers, a single connection keeps in memory
	// databases alive and avoids SQLITE_BUSY under concurrent registrations
	sqldb.SetMaxOpenConns(1)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// EnsureSchema creates the users table when it does not exist
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create users table")
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	dsn = strings.ToLower(dsn)
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
