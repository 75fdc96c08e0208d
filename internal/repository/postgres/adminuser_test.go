package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menstyle/storefront/pkg/database"
)

func newTestAdminRepo(t *testing.T) (*AdminUserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewAdminUserRepository(mock), mock
}

func TestAdminUserRepository_IsAdmin_RowPresent(t *testing.T) {
	repo, mock := newTestAdminRepo(t)

	mock.ExpectQuery("SELECT user_id FROM admin_users").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("user-1"))

	ok, err := repo.IsAdmin(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUserRepository_IsAdmin_RowAbsent(t *testing.T) {
	repo, mock := newTestAdminRepo(t)

	mock.ExpectQuery("SELECT user_id FROM admin_users").
		WithArgs("user-2").
		WillReturnError(pgx.ErrNoRows)

	ok, err := repo.IsAdmin(context.Background(), "user-2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUserRepository_IsAdmin_QueryError(t *testing.T) {
	repo, mock := newTestAdminRepo(t)

	mock.ExpectQuery("SELECT user_id FROM admin_users").
		WithArgs("user-3").
		WillReturnError(errors.New("connection reset"))

	ok, err := repo.IsAdmin(context.Background(), "user-3")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
