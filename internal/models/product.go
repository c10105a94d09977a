package models

import "time"

type ProductCategory string

const (
	CategorySublimacion ProductCategory = "sublimacion"
	CategoryTransfer    ProductCategory = "transfer"
	CategoryFotografia  ProductCategory = "fotografia"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategorySublimacion, CategoryTransfer, CategoryFotografia:
		return true
	}
	return false
}

func (c ProductCategory) Display() string {
	switch c {
	case CategorySublimacion:
		return "Sublimación"
	case CategoryTransfer:
		return "Transfer"
	case CategoryFotografia:
		return "Fotografía/Enmarcado"
	}
	return string(c)
}

type Product struct {
	ID                uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre            string          `gorm:"type:varchar(100);not null" json:"nombre"`
	Descripcion       string          `gorm:"type:text" json:"descripcion"`
	PrecioBase        string          `gorm:"type:decimal(10,2);not null" json:"precio_base"`
	Categoria         ProductCategory `gorm:"type:varchar(20);not null;index" json:"categoria"`
	ImagenReferencia  string          `gorm:"type:varchar(255)" json:"imagen_referencia"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ExampleImage is a sample photo shown in the public gallery for a product.
type ExampleImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Imagen    string    `gorm:"type:varchar(255);not null" json:"imagen"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}
