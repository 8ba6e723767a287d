package store

import (
	"context"
	"errors"
	"time"

	"github.com/streamly/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Unique fields reported by ConflictError.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldRoleName = "role_name"
)

// ConflictError is returned when a write violates a uniqueness constraint.
// It matches ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	return "store: already exists: " + e.Field
}

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }
func (e *ConflictError) Unwrap() error        { return e.Err }

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose sub-repositories per table group.
type Store interface {
	Accounts() Accounts
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account with its roles.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername is the exact, case-sensitive lookup used at login.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateAccount inserts the account row and one link per role in
	// a.Roles. Roles must already exist. A duplicate username or email
	// yields a *ConflictError naming the field.
	CreateAccount(ctx context.Context, a domain.Account) error

	// RecordLogin sets last_login_at and bumps updated_at. It returns
	// ErrNotFound when no row was touched.
	RecordLogin(ctx context.Context, accountID string, at time.Time) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID string, hash string, at time.Time) error
}

type Roles interface {
	// GetRoleByName fetches a role by its unique name.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// EnsureRole inserts r unless a role with the same name exists, then
	// returns the stored row. Concurrent callers observe the same role.
	EnsureRole(ctx context.Context, r domain.Role) (domain.Role, error)

	// ListAll returns all roles ordered by name.
	ListAll(ctx context.Context) ([]domain.Role, error)
}
