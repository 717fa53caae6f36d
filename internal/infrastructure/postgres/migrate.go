package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// NewMigrator opens its own database/sql handle; closing the migrator closes it.
func NewMigrator(dsn, migrationsDir string) (*migrate.Migrate, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(dsn, migrationsDir string, logger *logrus.Logger) error {
	m, err := NewMigrator(dsn, migrationsDir)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
