package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store"
)

const accountColumns = `id, username, email, password_hash, last_login_at, created_at, updated_at`

type accountsRepo struct {
	db dbtx
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a         domain.Account
		lastLogin *time.Time
	)
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &lastLogin, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Account{}, err
	}
	a.LastLoginAt = utcPtr(lastLogin)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return r.withRoles(ctx, a)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return r.withRoles(ctx, a)
}

func (r *accountsRepo) withRoles(ctx context.Context, a domain.Account) (domain.Account, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.name, r.description, r.created_at
		 FROM roles r
		 JOIN account_roles ar ON ar.role_id = r.id
		 WHERE ar.account_id = $1
		 ORDER BY r.name`, a.ID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("list roles for account: %w", err)
	}
	defer rows.Close()

	a.Roles = []domain.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return domain.Account{}, fmt.Errorf("scan role row: %w", err)
		}
		a.Roles = append(a.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return domain.Account{}, fmt.Errorf("iterate roles: %w", err)
	}
	return a, nil
}

func (r *accountsRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *accountsRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, last_login_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Username, a.Email, a.PasswordHash, utcPtr(a.LastLoginAt), a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	if err != nil {
		return mapConflict(err)
	}

	for _, role := range a.Roles {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`,
			a.ID, role.ID); err != nil {
			return fmt.Errorf("link role %s: %w", role.Name, err)
		}
	}
	return nil
}

func (r *accountsRepo) RecordLogin(ctx context.Context, accountID string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET last_login_at = $1, updated_at = $1 WHERE id = $2`,
		at.UTC(), accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID, hash string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, at.UTC(), accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
