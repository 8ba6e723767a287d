package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Register the pgx/v5 database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/streamly/accounts/internal/accounts/store/drivers/postgres/migrations"
)

// migrateURL rewrites postgres:// and postgresql:// to the pgx5:// scheme the
// golang-migrate pgx/v5 driver registers under.
func migrateURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "postgres://"); ok {
		return "pgx5://" + rest
	}
	if rest, ok := strings.CutPrefix(url, "postgresql://"); ok {
		return "pgx5://" + rest
	}
	return url
}

// ApplyMigrations applies pending embedded migrations over a dedicated
// connection that is closed afterwards.
func (s *Store) ApplyMigrations() error {
	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(s.url))
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("initialize migrator: %w", err)
	}
	defer m.Close() //nolint:errcheck // migration result takes precedence

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
