package repository

import (
	"errors"

	"github.com/nerdgeek/tienda/internal/models"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) CreateProduct(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

func (r *ProductRepository) ListProducts() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) UpdateProduct(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *ProductRepository) DeleteProduct(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// ListExamplesByCategory returns gallery photos for all products in a category.
func (r *ProductRepository) ListExamplesByCategory(categoria models.ProductCategory) ([]models.ExampleImage, error) {
	var examples []models.ExampleImage
	err := r.db.
		Joins("JOIN products ON products.id = example_images.product_id").
		Where("products.categoria = ?", categoria).
		Order("example_images.id ASC").
		Find(&examples).Error
	return examples, err
}

func (r *ProductRepository) CreateExample(example *models.ExampleImage) error {
	return r.db.Create(example).Error
}
