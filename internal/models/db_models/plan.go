package db_models

import (
	"gorm.io/datatypes"
)

type Plan struct {
	BaseModel
	Name         string         `gorm:"column:nombre" json:"nombre"` // FREE, ENTERPRISE
	Description  string         `gorm:"column:descripcion" json:"descripcion"`
	MonthlyPrice float64        `gorm:"column:precio_mensual" json:"precio_mensual"`
	MaxClientes  int            `gorm:"column:max_clientes" json:"max_clientes"` // 0 = unlimited
	Features     datatypes.JSON `gorm:"column:features;type:jsonb;default:'{}'" json:"features"`
	IsActive     bool           `gorm:"column:activo;default:true" json:"activo"`
}

func (Plan) TableName() string { return "planes" }
