package sqlite

import (
	"context"
	"time"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/internal/accounts/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return r.withRoles(ctx, row)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row, err := r.q.GetAccountByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return r.withRoles(ctx, row)
}

func (r *accountsRepo) withRoles(ctx context.Context, row gen.Account) (domain.Account, error) {
	roles, err := r.q.ListRolesForAccount(ctx, row.ID)
	if err != nil {
		return domain.Account{}, err
	}
	return mapAccount(row, roles), nil
}

func (r *accountsRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.q.AccountExistsByUsername(ctx, username)
	return n != 0, err
}

func (r *accountsRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.q.AccountExistsByEmail(ctx, email)
	return n != 0, err
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	err := r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		LastLoginAt:  mapOptionalTime(a.LastLoginAt),
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	})
	if err != nil {
		return mapConflict(err)
	}

	for _, role := range a.Roles {
		if err := r.q.AddAccountRole(ctx, gen.AddAccountRoleParams{
			AccountID: a.ID,
			RoleID:    role.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (r *accountsRepo) RecordLogin(ctx context.Context, accountID string, at time.Time) error {
	n, err := r.q.UpdateAccountLastLogin(ctx, gen.UpdateAccountLastLoginParams{
		LastLoginAt: mapOptionalTime(&at),
		UpdatedAt:   at.UTC(),
		ID:          accountID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID, hash string, at time.Time) error {
	n, err := r.q.UpdateAccountPasswordHash(ctx, gen.UpdateAccountPasswordHashParams{
		PasswordHash: hash,
		UpdatedAt:    at.UTC(),
		ID:           accountID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
