package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/service"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	ImagenCliente string `json:"imagen_cliente" form:"imagen_cliente"`
	Instrucciones string `json:"instrucciones" form:"instrucciones"`
}

// CreateOrder opens an order for the product in the URL. Owner and product
// come from the session and the path, never from the body.
// POST /producto/:id/comprar
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)

	order, err := h.orderService.CreateOrder(userID, uint(productID), req.ImagenCliente, req.Instrucciones)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, service.ErrUserNotActive):
			statusCode = http.StatusForbidden
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	logger.Log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.String("user_id", userID.String()),
	)

	// Checkout lands the customer straight in the order chat
	c.Header("Location", fmt.Sprintf("/pedido/%d", order.ID))
	c.JSON(http.StatusCreated, gin.H{"pedido": order})
}

// ListOrders shows the caller's orders, or every order for a superuser.
// GET /mis-pedidos
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	superuser := c.GetBool("superuser")

	orders, err := h.orderService.ListOrders(userID, superuser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pedidos": orders,
		"count":   len(orders),
	})
}

// GetOrderDetail returns the order and its full chat thread.
// GET /pedido/:id
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	superuser := c.GetBool("superuser")

	order, messages, err := h.orderService.GetOrderDetail(userID, superuser, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pedido":   order,
		"mensajes": serializeMessages(messages),
	})
}

// ChangeStatus moves an order to a new state. Mirrors the admin link in the
// order detail view, so it always redirects back there.
// GET /pedido/:id/cambiar-estado/:estado
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	superuser := c.GetBool("superuser")
	estado := models.OrderStatus(c.Param("estado"))

	_, err = h.orderService.ChangeStatus(userID, superuser, uint(orderID), estado)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.Redirect(http.StatusFound, "/")
			return
		case errors.Is(err, service.ErrInvalidStatus):
			// Unknown status is a silent no-op back to the detail view
			c.Redirect(http.StatusFound, fmt.Sprintf("/pedido/%d", orderID))
			return
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/pedido/%d", orderID))
}

func serializeMessages(messages []models.ChatMessage) []gin.H {
	result := make([]gin.H, 0, len(messages))
	for _, msg := range messages {
		result = append(result, gin.H{
			"id":        msg.ID,
			"contenido": msg.Contenido,
			"emisor":    msg.Sender.Username,
			"timestamp": msg.CreatedAt.Format("15:04"),
		})
	}
	return result
}
