package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/internal/accounts/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db *sql.DB
	q  *gen.Queries
}

// NewStore opens the database at dsn (a file path or ":memory:").
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return newStore(db)
}

// newStore wraps an open handle. SQLite allows a single writer, and every
// ":memory:" connection is a separate database, so the pool is pinned to one
// connection.
func newStore(db *sql.DB) (*Store, error) {
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, q: gen.New(db)}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts { return &accountsRepo{q: s.q} }
func (s *Store) Roles() store.Roles       { return &rolesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict turns a SQLite UNIQUE violation into a *store.ConflictError.
// SQLite reports the offending column as "table.column" in the message.
func mapConflict(err error) error {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code() != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "accounts.username"):
		return &store.ConflictError{Field: store.FieldUsername, Err: err}
	case strings.Contains(msg, "accounts.email"):
		return &store.ConflictError{Field: store.FieldEmail, Err: err}
	case strings.Contains(msg, "roles.name"):
		return &store.ConflictError{Field: store.FieldRoleName, Err: err}
	default:
		return &store.ConflictError{Err: err}
	}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapAccount(row gen.Account, roles []gen.Role) domain.Account {
	out := domain.Account{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		LastLoginAt:  mapNullTimePtr(row.LastLoginAt),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
		Roles:        make([]domain.Role, 0, len(roles)),
	}
	for _, r := range roles {
		out.Roles = append(out.Roles, mapRole(r))
	}
	return out
}

func mapRole(row gen.Role) domain.Role {
	return domain.Role{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.UTC(),
	}
}
