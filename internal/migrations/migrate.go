package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

const (
	sqliteDialect = "sqlite3"
	migrationsDir = "sql"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Up runs all pending SQL migrations embedded in the binary. A nil logger
// silences goose.
func Up(db *sql.DB, logger goose.Logger) error {
	if logger == nil {
		logger = goose.NopLogger()
	}
	goose.SetLogger(logger)
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
