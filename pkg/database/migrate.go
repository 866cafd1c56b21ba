package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateLogger routes golang-migrate progress into zap.
type migrateLogger struct{ l *zap.Logger }

func (m migrateLogger) Printf(format string, v ...interface{}) {
	m.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (m migrateLogger) Verbose() bool { return m.l.Core().Enabled(zap.DebugLevel) }

// RunMigrations brings the accounts, courses, enrollments and files schema
// up to date. A dirty schema is an error: the operator must fix it by hand.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "classrepo_schema_migrations"})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	m.Log = migrateLogger{l: logger}

	if v, dirty, verr := m.Version(); verr == nil && dirty {
		return fmt.Errorf("schema version %d is dirty", v)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("schema up to date")
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}

	v, _, _ := m.Version()
	logger.Info("schema ready", zap.Uint("version", v))
	return nil
}
