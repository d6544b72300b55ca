package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// MigrationSource returns the embedded versioned migrations for a driver.
func MigrationSource(driver string) (source.Driver, error) {
	dir := "migrations/mysql"
	if driver == DriverSQLite {
		dir = "migrations/sqlite"
	}
	return iofs.New(migrationFS, dir)
}

// Migrate applies all pending schema migrations and returns the resulting version.
//
// The migrate instance is deliberately not closed: its database driver owns the
// shared pool and closing it would close db as well.
func Migrate(db *gorm.DB, driver string) (uint, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	src, err := MigrationSource(driver)
	if err != nil {
		return 0, fmt.Errorf("failed to open migrations: %w", err)
	}

	var (
		drv  migratedb.Driver
		name string
	)
	switch driver {
	case DriverSQLite:
		name = "sqlite3"
		drv, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	default:
		name = "mysql"
		drv, err = migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	}
	if err != nil {
		return 0, fmt.Errorf("failed to init %s migration driver: %w", name, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, drv)
	if err != nil {
		return 0, fmt.Errorf("failed to init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}

	return version, nil
}
