package migrate

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Schema migrations ship inside the binary so the catalog can be created
// or upgraded on first launch without any external files.
//
//go:embed sql/*.sql
var migrationFS embed.FS

const migrationsDir = "sql"

func init() {
	goose.SetBaseFS(migrationFS)
}

// Up brings db to the latest schema version. Safe to call on every start;
// goose records applied versions and skips them.
func Up(db *sql.DB) error {
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Version reports the current schema version of db.
func Version(db *sql.DB) (int64, error) {
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersion(db)
}
