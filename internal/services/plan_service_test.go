package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogniseguros/internal/repositories"
	"cogniseguros/internal/testutil"
)

func TestPlanService_GetPlans(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "planes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "descripcion", "precio_mensual", "max_clientes", "features", "activo"}).
			AddRow(1, "FREE", "Prueba", 0, 100, []byte(`{"campanias": false, "scoring": false}`), true).
			AddRow(2, "ENTERPRISE", "Sin límites", 0, 0, []byte(`not json`), true))

	plans, err := NewPlanService(repositories.NewPlanRepository(db)).GetPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, "FREE", plans[0].Name)
	assert.Equal(t, 100, plans[0].MaxClientes)
	assert.Equal(t, map[string]any{"campanias": false, "scoring": false}, plans[0].Features)
	assert.Nil(t, plans[1].Features)
	assert.NoError(t, mock.ExpectationsWereMet())
}
