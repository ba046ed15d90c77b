package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/internal/testutil"
	"cogniseguros/pkg/utils"
)

func TestAccountRepository_ListTenantRefs(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, tenant_db FROM usuarios WHERE role = $1 ORDER BY id")).
		WithArgs(db_models.RoleAseguradora).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "tenant_db"}).
			AddRow(int64(3), "a@x.com", nil).
			AddRow(int64(7), "b@x.com", "legacy_b"))

	refs, err := repo.ListTenantRefs(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, int64(3), refs[0].ID)
	assert.Nil(t, refs[0].TenantDB)
	require.NotNil(t, refs[1].TenantDB)
	assert.Equal(t, "legacy_b", *refs[1].TenantDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmailIsCaseInsensitive(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "usuarios" WHERE lower\(email\) = lower\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow(int64(5), "ana@example.com", "aseguradora"))

	account, err := repo.FindByEmail(context.Background(), "Ana@Example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, int64(5), account.ID)
	assert.Equal(t, db_models.RoleAseguradora, account.Role)
}

func TestAccountRepository_FindByIDMissing(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "usuarios" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	account, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountRepository_UpdateRoleUnknownAccount(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(`UPDATE "usuarios" SET .*"role"=\$\d.* WHERE id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRole(context.Background(), 42, db_models.RoleAdmin)
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SetBlocked(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewAccountRepository(db)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "usuarios" SET .*"blocked_at"=.*"blocked_reason"=.* WHERE id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetBlocked(context.Background(), 7, "falta de pago", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_InsertDuplicateEmail(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`INSERT INTO "usuarios"`).
		WillReturnError(&pgconn.PgError{Code: utils.SQLStateUniqueViolation, Message: "duplicate key value violates unique constraint"})

	err := repo.Insert(context.Background(), &db_models.Account{Email: "dup@x.com", Role: db_models.RoleAseguradora})
	require.Error(t, err)
	assert.True(t, utils.IsUniqueViolation(err))
	assert.ErrorIs(t, err, utils.ErrSchemaConflict)
}
