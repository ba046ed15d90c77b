package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cogniseguros/internal/models/request_models"
	"cogniseguros/internal/models/response_models"
	"cogniseguros/internal/services"
	"cogniseguros/pkg/middleware"
	"cogniseguros/pkg/utils"
)

// ClienteController serves the tenant API. Every route runs behind
// TenantMiddleware, so handlers only see the caller's own database.
type ClienteController struct {
	clienteService services.ClienteServiceInterface
}

func NewClienteController(clienteService services.ClienteServiceInterface) *ClienteController {
	return &ClienteController{
		clienteService: clienteService,
	}
}

// ListClientes godoc
// @Summary List clientes
// @Tags Clientes
// @Produce json
// @Param q query string false "Search on nombre, apellido, email or documento"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 200)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /clientes [get]
func (cc *ClienteController) ListClientes(c *gin.Context) {
	page, pageSize, ok := pagination(c, 20)
	if !ok {
		return
	}

	items, total, err := cc.clienteService.List(c.Request.Context(), middleware.TenantDB(c), c.Query("q"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.ClienteListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, "Clientes fetched successfully")
}

// GetCliente godoc
// @Summary Get a cliente
// @Tags Clientes
// @Produce json
// @Param id path int true "Cliente ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /clientes/{id} [get]
func (cc *ClienteController) GetCliente(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	cliente, err := cc.clienteService.Get(c.Request.Context(), middleware.TenantDB(c), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, cliente, "Cliente fetched successfully")
}

// CreateCliente godoc
// @Summary Create a cliente
// @Description pais defaults to AR; documento is unique per pais
// @Tags Clientes
// @Accept json
// @Produce json
// @Param request body request_models.CreateClienteRequest true "Cliente"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /clientes [post]
func (cc *ClienteController) CreateCliente(c *gin.Context) {
	var req request_models.CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	cliente, err := cc.clienteService.Create(c.Request.Context(), middleware.TenantDB(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated, cliente, "Cliente created successfully")
}

// GetConfiguracion godoc
// @Summary Read a configuration value
// @Tags Configuracion
// @Produce json
// @Param clave path string true "Key"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /configuracion/{clave} [get]
func (cc *ClienteController) GetConfiguracion(c *gin.Context) {
	clave := strings.TrimSpace(c.Param("clave"))
	if clave == "" {
		utils.RespondError(c, http.StatusBadRequest, "Key is required")
		return
	}

	cfg, err := cc.clienteService.GetConfig(c.Request.Context(), middleware.TenantDB(c), clave)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, cfg, "Configuration fetched successfully")
}

// PutConfiguracion godoc
// @Summary Write a configuration value
// @Tags Configuracion
// @Accept json
// @Produce json
// @Param clave path string true "Key"
// @Param request body request_models.PutConfiguracionRequest true "JSON value"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /configuracion/{clave} [put]
func (cc *ClienteController) PutConfiguracion(c *gin.Context) {
	clave := strings.TrimSpace(c.Param("clave"))
	if clave == "" {
		utils.RespondError(c, http.StatusBadRequest, "Key is required")
		return
	}

	var req request_models.PutConfiguracionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	cfg, err := cc.clienteService.PutConfig(c.Request.Context(), middleware.TenantDB(c), clave, req.Valor)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, cfg, "Configuration saved")
}
