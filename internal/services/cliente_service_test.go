package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogniseguros/internal/models/request_models"
	"cogniseguros/internal/testutil"
	"cogniseguros/pkg/utils"
)

func TestClienteService_CreateDefaultsCountry(t *testing.T) {
	tenant, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`INSERT INTO "clientes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))

	cliente, err := NewClienteService().Create(context.Background(), tenant, request_models.CreateClienteRequest{
		Nombre:    " Ana ",
		Email:     "Ana@Example.com",
		Documento: "20111222",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), cliente.ID)
	assert.Equal(t, "AR", cliente.Pais)
	assert.Equal(t, "Ana", cliente.Nombre)
	require.NotNil(t, cliente.Email)
	assert.Equal(t, "ana@example.com", *cliente.Email)
	assert.Nil(t, cliente.Apellido)
	assert.JSONEq(t, `{}`, string(cliente.Datos))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteService_CreateDuplicateDocumento(t *testing.T) {
	tenant, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`INSERT INTO "clientes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := NewClienteService().Create(context.Background(), tenant, request_models.CreateClienteRequest{
		Nombre:    "Ana",
		Pais:      "uy",
		Documento: "20111222",
	})
	assert.ErrorIs(t, err, utils.ErrClienteDuplicado)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteService_CreateRejectsCountry(t *testing.T) {
	tenant, mock := testutil.NewMockDB(t)

	_, err := NewClienteService().Create(context.Background(), tenant, request_models.CreateClienteRequest{
		Nombre: "Ana",
		Pais:   "ARG",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCountry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteService_GetMissing(t *testing.T) {
	tenant, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "clientes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewClienteService().Get(context.Background(), tenant, 9)
	assert.ErrorIs(t, err, utils.ErrClienteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteService_GetConfigMissing(t *testing.T) {
	tenant, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "configuracion"`).
		WillReturnRows(sqlmock.NewRows([]string{"clave"}))

	_, err := NewClienteService().GetConfig(context.Background(), tenant, "smtp")
	assert.ErrorIs(t, err, utils.ErrConfigKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
