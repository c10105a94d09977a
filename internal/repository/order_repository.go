package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("User").Preload("Product").First(&order, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

// ListAllOrders returns every order, newest first. Superuser view.
func (r *OrderRepository) ListAllOrders() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("User").
		Preload("Product").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListOrdersByUser returns one customer's orders, newest first.
func (r *OrderRepository) ListOrdersByUser(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("User").
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) UpdateStatus(id uint, estado models.OrderStatus) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("estado", estado).Error
}

// CountOrdersByProduct backs the protect-on-delete check for products.
func (r *OrderRepository) CountOrdersByProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
