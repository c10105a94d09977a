package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one line of the per-order conversation. Messages are
// append-only; there is no edit or delete path.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Contenido string    `gorm:"type:text;not null" json:"contenido"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Order  Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Sender User  `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender"`
}
