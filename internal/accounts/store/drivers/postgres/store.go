// Package postgres implements store.Store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store"
)

// dbtx is the query surface shared by the pool and a pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// poolIface is the subset of *pgxpool.Pool the store needs. pgxmock's pool
// satisfies it in tests.
type poolIface interface {
	dbtx
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type Store struct {
	pool poolIface
	url  string
}

// NewStore connects to the database at url (postgres:// or postgresql://).
func NewStore(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Store{pool: pool, url: url}, nil
}

func newStoreWithPool(pool poolIface, url string) *Store {
	return &Store{pool: pool, url: url}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return newTx(ctx, tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts { return &accountsRepo{db: s.pool} }
func (s *Store) Roles() store.Roles       { return &rolesRepo{db: s.pool} }

// Constraint names from the initial migration.
const (
	constraintUsername = "accounts_username_key"
	constraintEmail    = "accounts_email_key"
	constraintRoleName = "roles_name_key"
)

// mapConflict turns a unique_violation into a *store.ConflictError keyed by
// the constraint that fired.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case constraintUsername:
		return &store.ConflictError{Field: store.FieldUsername, Err: err}
	case constraintEmail:
		return &store.ConflictError{Field: store.FieldEmail, Err: err}
	case constraintRoleName:
		return &store.ConflictError{Field: store.FieldRoleName, Err: err}
	default:
		return &store.ConflictError{Err: err}
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func scanRole(row pgx.Row) (domain.Role, error) {
	var r domain.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt); err != nil {
		return domain.Role{}, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}
