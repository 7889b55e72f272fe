package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mercadito/backend/internal/repository"
)

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a RoleRepository backed by Postgres.
func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		"SELECT role FROM user_roles WHERE user_id = $1", userID,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return "user", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query role: %w", err)
	}
	return role, nil
}

func (r *roleRepository) FindAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT user_id, role FROM user_roles")
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := make(map[string]string)
	for rows.Next() {
		var userID, role string
		if err := rows.Scan(&userID, &role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles[userID] = role
	}
	return roles, rows.Err()
}
