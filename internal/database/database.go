// Package database opens the sqlite store, tunes it for the mixed
// ingest/read workload and applies the embedded schema migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"raidtracker/internal/config"
	"raidtracker/internal/constants"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", cfg.DBPath).Msg("opening database")

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := applyPragmas(db, logger); err != nil {
		return nil, fmt.Errorf("failed to tune database: %w", err)
	}
	if err := migrate(db, logger); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// applyPragmas puts sqlite into WAL mode so cache refresh reads do not
// block the ingest writer, and keeps the rest of the tuning alongside.
func applyPragmas(db *sql.DB, logger zerolog.Logger) error {
	pragmas := []string{
		"journal_mode = WAL",
		"synchronous = NORMAL",
		"busy_timeout = 5000",
		"foreign_keys = ON",
		"cache_size = -64000",
		"temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec("PRAGMA " + pragma); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma, err)
		}
	}
	logger.Debug().Int("pragmas", len(pragmas)).Msg("sqlite tuned")
	return nil
}

func migrate(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info().Msg("migrations applied")
	return nil
}
