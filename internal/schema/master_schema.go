package schema

// Plan names seeded into every master database.
const (
	PlanFree       = "FREE"
	PlanEnterprise = "ENTERPRISE"
)

// MasterSchema is the layout of the shared database holding accounts, plans
// and subscriptions.
func MasterSchema() Schema {
	return Schema{
		Name: "master",
		Tables: []Table{
			{
				Name: "usuarios",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "email", Type: "TEXT", Required: true},
					{Name: "password_hash", Type: "TEXT"},
					{Name: "nombre", Type: "TEXT", NotNull: true, Default: "''"},
					{Name: "role", Type: "TEXT", NotNull: true, Default: "'aseguradora'"},
					{Name: "tenant_db", Type: "TEXT"},
					{Name: "trial_started_at", Type: "TIMESTAMPTZ"},
					{Name: "trial_expires_at", Type: "TIMESTAMPTZ"},
					{Name: "blocked_at", Type: "TIMESTAMPTZ"},
					{Name: "blocked_reason", Type: "TEXT"},
					createdAt(),
					updatedAt(),
				},
				Indexes: []Index{
					{
						Name:       "ux_usuarios_email_lower",
						Columns:    []string{"lower(email)"},
						Unique:     true,
						Supersedes: []string{"usuarios_email_key"},
					},
					{Name: "idx_usuarios_role", Columns: []string{"role"}},
				},
			},
			{
				Name: "planes",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "nombre", Type: "TEXT", Required: true},
					{Name: "descripcion", Type: "TEXT", NotNull: true, Default: "''"},
					{Name: "precio_mensual", Type: "NUMERIC(12,2)", NotNull: true, Default: "0"},
					{Name: "max_clientes", Type: "INTEGER", NotNull: true, Default: "0"},
					{Name: "features", Type: "JSONB", NotNull: true, Default: "'{}'::jsonb"},
					{Name: "activo", Type: "BOOLEAN", NotNull: true, Default: "true"},
					createdAt(),
					updatedAt(),
				},
				Indexes: []Index{
					{Name: "ux_planes_nombre", Columns: []string{"nombre"}, Unique: true},
				},
				Seeds: []string{
					`INSERT INTO planes (nombre, descripcion, precio_mensual, max_clientes, features) ` +
						`VALUES ('FREE', 'Plan de prueba', 0, 100, '{"campanias": false, "scoring": false}'::jsonb) ` +
						`ON CONFLICT (nombre) DO NOTHING`,
					`INSERT INTO planes (nombre, descripcion, precio_mensual, max_clientes, features) ` +
						`VALUES ('ENTERPRISE', 'Plan completo', 0, 0, '{"campanias": true, "scoring": true}'::jsonb) ` +
						`ON CONFLICT (nombre) DO NOTHING`,
				},
			},
			{
				Name: "suscripciones",
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true},
					{Name: "aseguradora_id", Type: "BIGINT", Required: true, References: "usuarios(id) ON DELETE CASCADE"},
					{Name: "plan_id", Type: "BIGINT", References: "planes(id)"},
					{Name: "status", Type: "TEXT", NotNull: true, Default: "'PRUEBA'"},
					{Name: "fecha_inicio", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"},
					{Name: "fecha_fin", Type: "TIMESTAMPTZ"},
					{Name: "fecha_proximo_pago", Type: "TIMESTAMPTZ"},
					createdAt(),
					updatedAt(),
				},
				Indexes: []Index{
					{
						Name:    "ux_suscripciones_aseguradora",
						Columns: []string{"aseguradora_id"},
						Unique:  true,
					},
				},
			},
		},
	}
}
