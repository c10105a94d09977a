package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/repository"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("message cannot be empty")

type ChatService struct {
	chatRepo   *repository.ChatRepository
	orderRepo  *repository.OrderRepository
	dispatcher NotificationDispatcher
}

func NewChatService(chatRepo *repository.ChatRepository, orderRepo *repository.OrderRepository, dispatcher NotificationDispatcher) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
	}
}

// PostMessage appends to an order's thread. Only the owning customer and
// superusers may write; a customer message pings the shop owner's phone.
func (s *ChatService) PostMessage(userID uuid.UUID, username string, isSuperuser bool, orderID uint, body string) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isSuperuser && order.UserID != userID {
		logger.Log.Warn("Chat write refused: not the order owner",
			zap.String("user_id", userID.String()),
			zap.Uint("order_id", orderID),
		)
		return nil, ErrOrderNotFound
	}

	message := &models.ChatMessage{
		OrderID:   order.ID,
		SenderID:  userID,
		Contenido: body,
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		logger.Log.Error("Failed to create chat message",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Debug("Chat message posted",
		zap.Uint("order_id", order.ID),
		zap.String("sender", username),
	)

	// A customer wrote: ping the shop owner. Admin replies stay silent.
	if !isSuperuser {
		s.dispatcher.NotifyAdminNewMessage(order, username)
	}

	return message, nil
}

// ListMessages returns an order's full thread, oldest first.
func (s *ChatService) ListMessages(orderID uint) ([]models.ChatMessage, error) {
	return s.chatRepo.ListMessagesByOrder(orderID)
}
