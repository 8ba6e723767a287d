package postgres

import (
	"context"
	"fmt"

	"github.com/streamly/accounts/internal/accounts/domain"
)

const roleColumns = `id, name, description, created_at`

type rolesRepo struct {
	db dbtx
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	role, err := scanRole(r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

// EnsureRole inserts the role unless the name is taken, then reads back
// whichever row holds the name.
func (r *rolesRepo) EnsureRole(ctx context.Context, role domain.Role) (domain.Role, error) {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO roles (id, name, description, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO NOTHING`,
		role.ID, role.Name, role.Description, role.CreatedAt.UTC()); err != nil {
		return domain.Role{}, mapConflict(err)
	}
	return r.GetRoleByName(ctx, role.Name)
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}
