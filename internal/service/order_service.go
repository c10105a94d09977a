package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/repository"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrForbidden     = errors.New("operation requires superuser")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrUserNotActive = errors.New("account must be active to place orders")
)

// NotificationDispatcher is the outbound side-channel invoked after order
// and chat writes commit. Implementations must not block on failure.
type NotificationDispatcher interface {
	NotifyAdminNewMessage(order *models.Order, senderUsername string)
	NotifyStatusChange(order *models.Order)
}

type OrderService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	chatRepo    *repository.ChatRepository
	userRepo    *repository.UserRepository
	dispatcher  NotificationDispatcher
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	chatRepo *repository.ChatRepository,
	userRepo *repository.UserRepository,
	dispatcher NotificationDispatcher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// CreateOrder opens a customization order at checkout. Owner and product are
// assigned here from the session and the URL, never from form fields.
func (s *OrderService) CreateOrder(userID uuid.UUID, productID uint, imagenCliente, instrucciones string) (*models.Order, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Log.Error("Failed to load user for order",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrUserNotActive
	}

	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	order := &models.Order{
		UserID:        user.ID,
		ProductID:     product.ID,
		ImagenCliente: imagenCliente,
		Instrucciones: instrucciones,
		Estado:        models.StatusPendiente,
	}

	if err := s.orderRepo.CreateOrder(order); err != nil {
		logger.Log.Error("Failed to create order",
			zap.String("user_id", userID.String()),
			zap.Uint("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("user_id", user.ID.String()),
		zap.Uint("product_id", product.ID),
	)

	// Reload with associations for the detail view
	return s.orderRepo.GetOrderByID(order.ID)
}

// ListOrders returns all orders for a superuser, otherwise only the
// requesting user's own, newest first either way.
func (s *OrderService) ListOrders(userID uuid.UUID, isSuperuser bool) ([]models.Order, error) {
	if isSuperuser {
		return s.orderRepo.ListAllOrders()
	}
	return s.orderRepo.ListOrdersByUser(userID)
}

// GetOrderDetail returns the order and its full message log. A foreign order
// is indistinguishable from a missing one.
func (s *OrderService) GetOrderDetail(userID uuid.UUID, isSuperuser bool, orderID uint) (*models.Order, []models.ChatMessage, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	if !isSuperuser && order.UserID != userID {
		return nil, nil, ErrOrderNotFound
	}

	messages, err := s.chatRepo.ListMessagesByOrder(order.ID)
	if err != nil {
		logger.Log.Error("Failed to load order messages",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
		return nil, nil, err
	}

	return order, messages, nil
}

// ChangeStatus moves an order to any of the four states, in any direction.
// On success it appends one system chat line and emails the owner.
func (s *OrderService) ChangeStatus(adminID uuid.UUID, isSuperuser bool, orderID uint, estado models.OrderStatus) (*models.Order, error) {
	if !isSuperuser {
		logger.Log.Warn("Status change refused: not a superuser",
			zap.String("user_id", adminID.String()),
			zap.Uint("order_id", orderID),
		)
		return nil, ErrForbidden
	}

	if !estado.Valid() {
		logger.Log.Warn("Status change refused: unknown status",
			zap.Uint("order_id", orderID),
			zap.String("estado", string(estado)),
		)
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(order.ID, estado); err != nil {
		logger.Log.Error("Failed to update order status",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
		return nil, err
	}
	order.Estado = estado

	// Leave a permanent trace of the transition in the thread
	systemMsg := &models.ChatMessage{
		OrderID:   order.ID,
		SenderID:  adminID,
		Contenido: fmt.Sprintf("*** ACTUALIZACIÓN DE SISTEMA: El pedido pasó a estado %s ***", strings.ToUpper(estado.Display())),
	}
	if err := s.chatRepo.CreateMessage(systemMsg); err != nil {
		logger.Log.Error("Failed to append system chat message",
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("estado", string(estado)),
		zap.String("admin_id", adminID.String()),
	)

	// Best effort, after the write committed
	s.dispatcher.NotifyStatusChange(order)

	return order, nil
}
