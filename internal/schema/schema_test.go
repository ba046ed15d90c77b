package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(t *testing.T, statements []string, stmt string) int {
	t.Helper()
	for i, s := range statements {
		if s == stmt {
			return i
		}
	}
	t.Fatalf("statement not found: %s", stmt)
	return -1
}

func TestDeclaredSchemasAreValid(t *testing.T) {
	require.NoError(t, TenantSchema().Validate())
	require.NoError(t, MasterSchema().Validate())
}

func TestTenantSchema_ClientesStatementOrder(t *testing.T) {
	statements := TenantSchema().Statements()

	create := indexOf(t, statements, "CREATE TABLE IF NOT EXISTS clientes (id BIGSERIAL PRIMARY KEY, usuario_id BIGINT, "+
		"nombre TEXT NOT NULL DEFAULT '', apellido TEXT, email TEXT, telefono TEXT, "+
		"pais CHAR(2) NOT NULL DEFAULT 'AR', documento TEXT, fecha_nacimiento DATE, "+
		"datos JSONB NOT NULL DEFAULT '{}'::jsonb, created_at TIMESTAMPTZ NOT NULL DEFAULT now(), "+
		"updated_at TIMESTAMPTZ NOT NULL DEFAULT now())")
	addPais := indexOf(t, statements, "ALTER TABLE clientes ADD COLUMN IF NOT EXISTS pais CHAR(2) NOT NULL DEFAULT 'AR'")
	backfill := indexOf(t, statements, "UPDATE clientes SET pais = 'AR' WHERE pais IS NULL OR btrim(pais::text) = ''")
	dropConstraint := indexOf(t, statements, "ALTER TABLE clientes DROP CONSTRAINT IF EXISTS clientes_documento_key")
	dropIndex := indexOf(t, statements, "DROP INDEX IF EXISTS ux_clientes_documento")
	createIndex := indexOf(t, statements, "CREATE UNIQUE INDEX IF NOT EXISTS ux_clientes_pais_documento ON clientes (pais, documento)")

	assert.Less(t, create, addPais)
	assert.Less(t, addPais, backfill)
	assert.Less(t, backfill, dropConstraint)
	assert.Less(t, dropConstraint, dropIndex)
	assert.Less(t, dropIndex, createIndex)
}

func TestMasterSchema_SeedsFollowUniqueIndex(t *testing.T) {
	statements := MasterSchema().Statements()

	idx := indexOf(t, statements, "CREATE UNIQUE INDEX IF NOT EXISTS ux_planes_nombre ON planes (nombre)")
	var seeds []int
	for i, s := range statements {
		if strings.HasPrefix(s, "INSERT INTO planes") {
			seeds = append(seeds, i)
		}
	}
	require.Len(t, seeds, 2)
	for _, s := range seeds {
		assert.Less(t, idx, s)
	}
}

func TestStatements_AreIdempotentForms(t *testing.T) {
	for _, s := range append(TenantSchema().Statements(), MasterSchema().Statements()...) {
		switch {
		case strings.HasPrefix(s, "CREATE TABLE"):
			assert.Contains(t, s, "IF NOT EXISTS")
		case strings.HasPrefix(s, "ALTER TABLE") && strings.Contains(s, "ADD COLUMN"):
			assert.Contains(t, s, "ADD COLUMN IF NOT EXISTS")
		case strings.HasPrefix(s, "CREATE"):
			assert.Contains(t, s, "INDEX IF NOT EXISTS")
		case strings.HasPrefix(s, "DROP"), strings.Contains(s, "DROP CONSTRAINT"):
			assert.Contains(t, s, "IF EXISTS")
		case strings.HasPrefix(s, "INSERT"):
			assert.Contains(t, s, "ON CONFLICT")
		}
	}
}

func TestStatements_RequiredColumnsAreNotAddedLater(t *testing.T) {
	for _, s := range MasterSchema().Statements() {
		assert.NotContains(t, s, "ADD COLUMN IF NOT EXISTS email")
		assert.NotContains(t, s, "ADD COLUMN IF NOT EXISTS aseguradora_id")
	}
}

func TestValidate(t *testing.T) {
	id := Column{Name: "id", Type: "BIGSERIAL", PrimaryKey: true}
	table := func(cols []Column, idx ...Index) Schema {
		return Schema{Name: "t", Tables: []Table{{Name: "t", Columns: append([]Column{id}, cols...), Indexes: idx}}}
	}

	tests := []struct {
		name   string
		schema Schema
		errMsg string
	}{
		{
			name:   "not null without default",
			schema: table([]Column{{Name: "c", Type: "TEXT", NotNull: true}}),
			errMsg: "NOT NULL without a default",
		},
		{
			name:   "backfill without default",
			schema: table([]Column{{Name: "c", Type: "TEXT", Backfill: true}}),
			errMsg: "backfills without a default",
		},
		{
			name:   "required backfill",
			schema: table([]Column{{Name: "c", Type: "TEXT", Required: true, Backfill: true}}),
			errMsg: "cannot backfill",
		},
		{
			name:   "bad column name",
			schema: table([]Column{{Name: "c; DROP TABLE x", Type: "TEXT"}}),
			errMsg: "column",
		},
		{
			name:   "duplicate column",
			schema: table([]Column{{Name: "c", Type: "TEXT"}, {Name: "c", Type: "TEXT"}}),
			errMsg: "duplicate column",
		},
		{
			name:   "missing type",
			schema: table([]Column{{Name: "c"}}),
			errMsg: "has no type",
		},
		{
			name:   "no primary key",
			schema: Schema{Tables: []Table{{Name: "t", Columns: []Column{{Name: "c", Type: "TEXT"}}}}},
			errMsg: "primary key",
		},
		{
			name:   "index supersedes itself",
			schema: table(nil, Index{Name: "ux_t", Columns: []string{"id"}, Supersedes: []string{"ux_t"}}),
			errMsg: "supersedes itself",
		},
		{
			name:   "index without columns",
			schema: table(nil, Index{Name: "ux_t"}),
			errMsg: "no columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			require.ErrorIs(t, err, ErrInvalidSchema)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
