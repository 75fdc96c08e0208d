package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/menstyle/storefront/pkg/database"
)

// AdminUserRepository implements repository.AdminUserRepository using PostgreSQL.
type AdminUserRepository struct {
	pool database.DBTX
}

// NewAdminUserRepository creates a new PostgreSQL-backed admin user repository.
func NewAdminUserRepository(pool database.DBTX) *AdminUserRepository {
	return &AdminUserRepository{pool: pool}
}

// IsAdmin reports whether the given user id has an admin row. An absent row is
// not an error; it simply means the user is not an admin.
func (r *AdminUserRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var found string
	err := r.pool.QueryRow(ctx, "SELECT user_id FROM admin_users WHERE user_id = $1", userID).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query admin user: %w", err)
	}

	return true, nil
}
