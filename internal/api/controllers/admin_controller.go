package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cogniseguros/internal/models/request_models"
	"cogniseguros/internal/models/response_models"
	"cogniseguros/internal/services"
	"cogniseguros/pkg/utils"
)

type AdminController struct {
	accountService      services.AccountServiceInterface
	subscriptionService services.SubscriptionServiceInterface
	tenantService       services.TenantServiceInterface
}

func NewAdminController(
	accountService services.AccountServiceInterface,
	subscriptionService services.SubscriptionServiceInterface,
	tenantService services.TenantServiceInterface,
) *AdminController {
	return &AdminController{
		accountService:      accountService,
		subscriptionService: subscriptionService,
		tenantService:       tenantService,
	}
}

// ListAccounts godoc
// @Summary List accounts
// @Tags Admin
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 200)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts [get]
func (a *AdminController) ListAccounts(c *gin.Context) {
	page, pageSize, ok := pagination(c, 20)
	if !ok {
		return
	}

	accounts, total, err := a.accountService.ListAccounts(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{
		"items":     accounts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "Accounts fetched successfully")
}

// GetAccount godoc
// @Summary Get an account
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id} [get]
func (a *AdminController) GetAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := a.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, account, "Account fetched successfully")
}

// ChangeRole godoc
// @Summary Change an account role
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body request_models.ChangeRoleRequest true "New role"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/role [put]
func (a *AdminController) ChangeRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req request_models.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ChangeRole(c.Request.Context(), id, req.Role); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Role updated successfully")
}

// Block godoc
// @Summary Block an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body request_models.BlockAccountRequest false "Reason"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/block [post]
func (a *AdminController) Block(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req request_models.BlockAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	if err := a.accountService.Block(c.Request.Context(), id, req.Reason); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account blocked")
}

// Unblock godoc
// @Summary Unblock an account
// @Tags Admin
// @Param id path int true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/block [delete]
func (a *AdminController) Unblock(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := a.accountService.Unblock(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account unblocked")
}

// GetSubscription godoc
// @Summary Get an aseguradora subscription
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/subscription [get]
func (a *AdminController) GetSubscription(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	sub, err := a.subscriptionService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription fetched successfully")
}

// UpsertSubscription godoc
// @Summary Create or replace an aseguradora subscription
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body request_models.UpsertSubscriptionRequest true "Subscription"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/subscription [put]
func (a *AdminController) UpsertSubscription(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req request_models.UpsertSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sub, err := a.subscriptionService.Upsert(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription saved")
}

// ProvisionTenant godoc
// @Summary Create and migrate an aseguradora tenant database
// @Tags Admin
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/tenants/{id}/provision [post]
func (a *AdminController) ProvisionTenant(c *gin.Context) {
	a.migrateTenant(c, services.Migration{CreateMissing: true})
}

// MigrateTenant godoc
// @Summary Migrate one tenant database
// @Description Applies the tenant schema, or the given SQL script, to one aseguradora
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body request_models.MigrateRequest false "Optional SQL script"
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/tenants/{id}/migrate [post]
func (a *AdminController) MigrateTenant(c *gin.Context) {
	req, ok := bindMigrateRequest(c)
	if !ok {
		return
	}
	a.migrateTenant(c, services.Migration{SQL: req.SQL, CreateMissing: req.CreateMissing})
}

func (a *AdminController) migrateTenant(c *gin.Context, m services.Migration) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := a.tenantService.MigrateTenant(c.Request.Context(), id, m)
	if errors.Is(err, utils.ErrAccountNotFound) {
		utils.HandleServiceError(c, err)
		return
	}

	body := toMigrationResult(res)
	if !res.OK() {
		utils.RespondWithStatus(c, migrationStatus(res.Err), body, "Tenant migration failed")
		return
	}
	utils.RespondSuccess(c, body, "Tenant migrated")
}

// MigrateAllTenants godoc
// @Summary Migrate every tenant database
// @Description Runs the migration against each aseguradora independently and reports per tenant
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.MigrateRequest false "Optional SQL script"
// @Success 200 {object} utils.APIResponse
// @Success 207 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/tenants/migrate [post]
func (a *AdminController) MigrateAllTenants(c *gin.Context) {
	req, ok := bindMigrateRequest(c)
	if !ok {
		return
	}

	report, err := a.tenantService.MigrateAllTenants(c.Request.Context(), services.Migration{
		SQL:           req.SQL,
		CreateMissing: req.CreateMissing,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	body := response_models.MigrationReportResponse{
		OK:      report.OK,
		Failed:  report.Failed,
		Results: make([]response_models.TenantMigrationResult, 0, len(report.Results)),
	}
	for _, r := range report.Results {
		body.Results = append(body.Results, toMigrationResult(r))
	}

	if report.Failed > 0 {
		utils.RespondWithStatus(c, http.StatusMultiStatus, body, "Some tenants failed to migrate")
		return
	}
	utils.RespondSuccess(c, body, "All tenants migrated")
}

func bindMigrateRequest(c *gin.Context) (request_models.MigrateRequest, bool) {
	var req request_models.MigrateRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return req, false
	}
	return req, true
}

func toMigrationResult(r services.TenantResult) response_models.TenantMigrationResult {
	out := response_models.TenantMigrationResult{
		AccountID:  r.AccountID,
		Database:   r.Database,
		OK:         r.OK(),
		Statements: r.Statements,
		DurationMs: r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		out.SQLState = utils.SQLState(r.Err)
	}
	return out
}

func migrationStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrTenantUnavailable), errors.Is(err, utils.ErrTransientConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, utils.ErrSchemaConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
