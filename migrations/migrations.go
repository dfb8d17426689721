// Package migrations holds the versioned catalog schema for MySQL and
// PostgreSQL and runs it through golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"giftshop.GO/config"
)

//go:embed mysql/*.sql postgres/*.sql
var FS embed.FS

// ErrUnsupportedDriver is returned for drivers without versioned migrations
// (sqlite uses gorm AutoMigrate).
var ErrUnsupportedDriver = errors.New("migrations: driver has no versioned migrations")

// New opens a migrator for the configured database.
func New(cfg *config.Config) (*migrate.Migrate, error) {
	dir, url, err := DatabaseURL(cfg)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(FS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: source %s: %w", dir, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("migrations: open %s: %w", cfg.DBDriver, err)
	}
	return m, nil
}

// Up applies every pending migration. No change is not an error.
func Up(cfg *config.Config) (uint, error) {
	m, err := New(cfg)
	if err != nil {
		return 0, err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, err
	}
	v, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return v, err
}

// DatabaseURL returns the migration directory and golang-migrate URL for cfg.
func DatabaseURL(cfg *config.Config) (dir, url string, err error) {
	switch cfg.DBDriver {
	case "", "mysql":
		dsn := cfg.MySQLDSN()
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return "mysql", "mysql://" + dsn + sep + "multiStatements=true", nil
	case "postgres":
		dsn := cfg.PostgresDSN
		for _, prefix := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, prefix) {
				return "postgres", "pgx5://" + strings.TrimPrefix(dsn, prefix), nil
			}
		}
		return "", "", fmt.Errorf("migrations: POSTGRES_DSN must be a postgres:// URL")
	}
	return "", "", ErrUnsupportedDriver
}
