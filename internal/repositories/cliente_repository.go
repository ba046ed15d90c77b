package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/pkg/utils"
)

// ClienteRepository works on one tenant database.
type ClienteRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]db_models.Cliente, int64, error)
	FindByID(ctx context.Context, id int64) (*db_models.Cliente, error)
	Create(ctx context.Context, cliente *db_models.Cliente) error
}

type clienteRepository struct {
	db *gorm.DB
}

func NewClienteRepository(db *gorm.DB) ClienteRepository {
	return &clienteRepository{db: db}
}

func (r *clienteRepository) List(ctx context.Context, search string, page, pageSize int) ([]db_models.Cliente, int64, error) {
	if page < 1 {
		return nil, 0, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 200 {
		return nil, 0, utils.ErrInvalidPageSize
	}

	q := r.db.WithContext(ctx).Model(&db_models.Cliente{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(nombre) LIKE ? OR lower(coalesce(apellido, '')) LIKE ? OR documento LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError("count clientes", err)
	}

	var clientes []db_models.Cliente
	err := q.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&clientes).Error
	if err != nil {
		return nil, 0, utils.WrapDBError("list clientes", err)
	}
	return clientes, total, nil
}

func (r *clienteRepository) FindByID(ctx context.Context, id int64) (*db_models.Cliente, error) {
	var cliente db_models.Cliente
	err := r.db.WithContext(ctx).First(&cliente, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.WrapDBError("find cliente", err)
	}
	return &cliente, nil
}

func (r *clienteRepository) Create(ctx context.Context, cliente *db_models.Cliente) error {
	err := r.db.WithContext(ctx).Create(cliente).Error
	if utils.IsUniqueViolation(err) {
		return utils.ErrClienteDuplicado
	}
	return utils.WrapDBError("create cliente", err)
}

type ConfiguracionRepository interface {
	Get(ctx context.Context, clave string) (*db_models.Configuracion, error)
	Put(ctx context.Context, cfg *db_models.Configuracion) error
}

type configuracionRepository struct {
	db *gorm.DB
}

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepository{db: db}
}

func (r *configuracionRepository) Get(ctx context.Context, clave string) (*db_models.Configuracion, error) {
	var cfg db_models.Configuracion
	err := r.db.WithContext(ctx).First(&cfg, "clave = ?", clave).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.WrapDBError("get configuracion", err)
	}
	return &cfg, nil
}

func (r *configuracionRepository) Put(ctx context.Context, cfg *db_models.Configuracion) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clave"}},
			DoUpdates: clause.AssignmentColumns([]string{"valor", "updated_at"}),
		}).
		Create(cfg).Error
	return utils.WrapDBError("put configuracion", err)
}
