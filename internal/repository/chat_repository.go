package repository

import (
	"github.com/nerdgeek/tienda/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

// ListMessagesByOrder returns the full thread for one order, oldest first.
// Ties on created_at fall back to insertion order.
func (r *ChatRepository) ListMessagesByOrder(orderID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.
		Preload("Sender").
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepository) CountMessagesByOrder(orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}
