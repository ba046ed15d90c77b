package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/internal/models/request_models"
	"cogniseguros/internal/repositories"
	"cogniseguros/internal/schema"
	"cogniseguros/pkg/utils"
)

// ClienteServiceInterface operates on the caller's tenant database, which
// the tenant middleware puts on the request.
type ClienteServiceInterface interface {
	List(ctx context.Context, tenant *gorm.DB, search string, page, pageSize int) ([]db_models.Cliente, int64, error)
	Get(ctx context.Context, tenant *gorm.DB, id int64) (*db_models.Cliente, error)
	Create(ctx context.Context, tenant *gorm.DB, request request_models.CreateClienteRequest) (*db_models.Cliente, error)
	GetConfig(ctx context.Context, tenant *gorm.DB, clave string) (*db_models.Configuracion, error)
	PutConfig(ctx context.Context, tenant *gorm.DB, clave string, valor json.RawMessage) (*db_models.Configuracion, error)
}

type ClienteService struct {
	clientes      func(*gorm.DB) repositories.ClienteRepository
	configuracion func(*gorm.DB) repositories.ConfiguracionRepository
}

func NewClienteService() ClienteServiceInterface {
	return &ClienteService{
		clientes:      repositories.NewClienteRepository,
		configuracion: repositories.NewConfiguracionRepository,
	}
}

func (s *ClienteService) List(ctx context.Context, tenant *gorm.DB, search string, page, pageSize int) ([]db_models.Cliente, int64, error) {
	return s.clientes(tenant).List(ctx, search, page, pageSize)
}

func (s *ClienteService) Get(ctx context.Context, tenant *gorm.DB, id int64) (*db_models.Cliente, error) {
	cliente, err := s.clientes(tenant).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, utils.ErrClienteNotFound
	}
	return cliente, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (s *ClienteService) Create(ctx context.Context, tenant *gorm.DB, request request_models.CreateClienteRequest) (*db_models.Cliente, error) {
	pais := strings.ToUpper(strings.TrimSpace(request.Pais))
	if pais == "" {
		pais = schema.DefaultCountry
	}
	if len(pais) != 2 {
		return nil, utils.ErrInvalidCountry
	}

	cliente := &db_models.Cliente{
		Nombre:    strings.TrimSpace(request.Nombre),
		Apellido:  optional(request.Apellido),
		Email:     optional(strings.ToLower(request.Email)),
		Telefono:  optional(request.Telefono),
		Pais:      pais,
		Documento: optional(request.Documento),
		Datos:     datatypes.JSON("{}"),
	}
	if len(request.Datos) > 0 {
		cliente.Datos = datatypes.JSON(request.Datos)
	}
	if request.FechaNacimiento != "" {
		t, err := time.Parse("2006-01-02", request.FechaNacimiento)
		if err != nil {
			return nil, err
		}
		cliente.FechaNacimiento = &t
	}

	if err := s.clientes(tenant).Create(ctx, cliente); err != nil {
		return nil, err
	}
	return cliente, nil
}

func (s *ClienteService) GetConfig(ctx context.Context, tenant *gorm.DB, clave string) (*db_models.Configuracion, error) {
	cfg, err := s.configuracion(tenant).Get(ctx, clave)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, utils.ErrConfigKeyNotFound
	}
	return cfg, nil
}

func (s *ClienteService) PutConfig(ctx context.Context, tenant *gorm.DB, clave string, valor json.RawMessage) (*db_models.Configuracion, error) {
	cfg := &db_models.Configuracion{
		Clave:     strings.TrimSpace(clave),
		Valor:     datatypes.JSON(valor),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.configuracion(tenant).Put(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
