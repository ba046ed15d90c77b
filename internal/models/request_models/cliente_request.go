package request_models

import "encoding/json"

type CreateClienteRequest struct {
	Nombre          string          `json:"nombre" binding:"required,max=200"`
	Apellido        string          `json:"apellido" binding:"max=200"`
	Email           string          `json:"email" binding:"omitempty,email"`
	Telefono        string          `json:"telefono" binding:"max=50"`
	Pais            string          `json:"pais" binding:"omitempty,len=2,alpha"`
	Documento       string          `json:"documento" binding:"max=50"`
	FechaNacimiento string          `json:"fecha_nacimiento" binding:"omitempty,datetime=2006-01-02"`
	Datos           json.RawMessage `json:"datos"`
}

type PutConfiguracionRequest struct {
	Valor json.RawMessage `json:"valor" binding:"required"`
}
