package schema

// DefaultCountry is assigned to clientes rows created before the pais column
// existed.
const DefaultCountry = "AR"

func createdAt() Column {
	return Column{Name: "created_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"}
}

func updatedAt() Column {
	return Column{Name: "updated_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"}
}

// TenantSchema is the layout of every insurer database.
func TenantSchema() Schema {
	return Schema{
		Name: "tenant",
		Tables: []Table{
			{
				Name: "clientes",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "usuario_id", Type: "BIGINT"},
					{Name: "nombre", Type: "TEXT", NotNull: true, Default: "''"},
					{Name: "apellido", Type: "TEXT"},
					{Name: "email", Type: "TEXT"},
					{Name: "telefono", Type: "TEXT"},
					{Name: "pais", Type: "CHAR(2)", NotNull: true, Default: "'" + DefaultCountry + "'", Backfill: true},
					{Name: "documento", Type: "TEXT"},
					{Name: "fecha_nacimiento", Type: "DATE"},
					{Name: "datos", Type: "JSONB", NotNull: true, Default: "'{}'::jsonb"},
					createdAt(),
					updatedAt(),
				},
				Indexes: []Index{
					{
						Name:       "ux_clientes_pais_documento",
						Columns:    []string{"pais", "documento"},
						Unique:     true,
						Supersedes: []string{"clientes_documento_key", "ux_clientes_documento"},
					},
					{Name: "idx_clientes_email", Columns: []string{"lower(email)"}},
				},
			},
			{
				Name: "audiencias",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "nombre", Type: "TEXT", NotNull: true, Default: "''"},
					{Name: "filtros", Type: "JSONB", NotNull: true, Default: "'{}'::jsonb"},
					createdAt(),
				},
			},
			{
				Name: "campanias",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "nombre", Type: "TEXT", NotNull: true, Default: "''"},
					{Name: "audiencia_id", Type: "BIGINT", References: "audiencias(id) ON DELETE SET NULL"},
					{Name: "canal", Type: "TEXT", NotNull: true, Default: "'email'"},
					{Name: "estado", Type: "TEXT", NotNull: true, Default: "'BORRADOR'"},
					{Name: "programada_para", Type: "TIMESTAMPTZ"},
					createdAt(),
					updatedAt(),
				},
				Indexes: []Index{
					{Name: "idx_campanias_estado", Columns: []string{"estado"}},
				},
			},
			{
				Name: "scoring_runs",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "cliente_id", Type: "BIGINT", References: "clientes(id) ON DELETE CASCADE"},
					{Name: "modelo", Type: "TEXT", NotNull: true, Default: "'default'"},
					{Name: "score", Type: "NUMERIC(5,2)"},
					{Name: "detalles", Type: "JSONB", NotNull: true, Default: "'{}'::jsonb"},
					createdAt(),
				},
				Indexes: []Index{
					{Name: "idx_scoring_runs_cliente", Columns: []string{"cliente_id", "created_at"}},
				},
			},
			{
				Name: "notification_jobs",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "campania_id", Type: "BIGINT", References: "campanias(id) ON DELETE CASCADE"},
					{Name: "cliente_id", Type: "BIGINT", References: "clientes(id) ON DELETE CASCADE"},
					{Name: "estado", Type: "TEXT", NotNull: true, Default: "'PENDIENTE'"},
					{Name: "intentos", Type: "INTEGER", NotNull: true, Default: "0"},
					{Name: "ultimo_error", Type: "TEXT"},
					{Name: "programado_para", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"},
					createdAt(),
					updatedAt(),
				},
				Indexes: []Index{
					{Name: "idx_notification_jobs_pendientes", Columns: []string{"estado", "programado_para"}},
				},
			},
			{
				Name: "configuracion",
				Columns: []Column{
					{Name: "clave", Type: "TEXT", PrimaryKey: true},
					{Name: "valor", Type: "JSONB", NotNull: true, Default: "'{}'::jsonb"},
					updatedAt(),
				},
			},
		},
	}
}
