package response_models

type TenantMigrationResult struct {
	AccountID  int64  `json:"aseguradora_id"`
	Database   string `json:"database"`
	OK         bool   `json:"ok"`
	Statements int    `json:"statements"`
	Error      string `json:"error,omitempty"`
	SQLState   string `json:"sqlstate,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type MigrationReportResponse struct {
	OK      int                     `json:"ok"`
	Failed  int                     `json:"failed"`
	Results []TenantMigrationResult `json:"results"`
}

type ClienteListResponse struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
