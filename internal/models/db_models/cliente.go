package db_models

import (
	"time"

	"gorm.io/datatypes"
)

// Cliente lives in a tenant database.
type Cliente struct {
	BaseModel
	UsuarioID       *int64         `gorm:"column:usuario_id" json:"usuario_id,omitempty"`
	Nombre          string         `gorm:"column:nombre" json:"nombre"`
	Apellido        *string        `gorm:"column:apellido" json:"apellido,omitempty"`
	Email           *string        `gorm:"column:email" json:"email,omitempty"`
	Telefono        *string        `gorm:"column:telefono" json:"telefono,omitempty"`
	Pais            string         `gorm:"column:pais" json:"pais"`
	Documento       *string        `gorm:"column:documento" json:"documento,omitempty"`
	FechaNacimiento *time.Time     `gorm:"column:fecha_nacimiento;type:date" json:"fecha_nacimiento,omitempty"`
	Datos           datatypes.JSON `gorm:"column:datos;type:jsonb;default:'{}'" json:"datos"`
}

func (Cliente) TableName() string { return "clientes" }

type Configuracion struct {
	Clave     string         `gorm:"column:clave;primaryKey" json:"clave"`
	Valor     datatypes.JSON `gorm:"column:valor;type:jsonb" json:"valor"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Configuracion) TableName() string { return "configuracion" }
