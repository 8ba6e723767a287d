package sqlite

import (
	"context"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/store/drivers/sqlite/gen"
)

type rolesRepo struct {
	q *gen.Queries
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row, err := r.q.GetRoleByName(ctx, name)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return mapRole(row), nil
}

// EnsureRole relies on the UNIQUE(name) constraint: the insert is skipped when
// another writer got there first, and the read returns whichever row won.
func (r *rolesRepo) EnsureRole(ctx context.Context, role domain.Role) (domain.Role, error) {
	if err := r.q.InsertRoleIfAbsent(ctx, gen.InsertRoleIfAbsentParams{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt.UTC(),
	}); err != nil {
		return domain.Role{}, mapConflict(err)
	}
	return r.GetRoleByName(ctx, role.Name)
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.q.ListAllRoles(ctx)
	if err != nil {
		return nil, err
	}

	roles := make([]domain.Role, len(rows))
	for i, row := range rows {
		roles[i] = mapRole(row)
	}
	return roles, nil
}
