package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPendiente OrderStatus = "pendiente"
	StatusDiseno    OrderStatus = "diseno"
	StatusImpresion OrderStatus = "impresion"
	StatusListo     OrderStatus = "listo"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPendiente, StatusDiseno, StatusImpresion, StatusListo:
		return true
	}
	return false
}

func (s OrderStatus) Display() string {
	switch s {
	case StatusPendiente:
		return "Pendiente"
	case StatusDiseno:
		return "En Diseño/Conversación"
	case StatusImpresion:
		return "En Impresión"
	case StatusListo:
		return "Listo para Entrega"
	}
	return string(s)
}

type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID     uint        `gorm:"not null;index" json:"product_id"`
	ImagenCliente string      `gorm:"type:varchar(255)" json:"imagen_cliente"`
	Instrucciones string      `gorm:"type:text" json:"instrucciones"`
	Estado        OrderStatus `gorm:"type:varchar(20);not null;default:'pendiente'" json:"estado"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`

	// The product must survive as long as any order references it.
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product"`
}
