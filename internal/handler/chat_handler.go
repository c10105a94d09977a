package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type SendMessageRequest struct {
	Contenido string `json:"contenido" form:"contenido"`
}

// SendMessage appends to an order's chat thread. An AJAX caller gets the
// created message back as JSON; a plain form submit is bounced back to the
// detail view whether or not the post succeeded.
// POST /pedido/:id/enviar
func (h *ChatHandler) SendMessage(c *gin.Context) {
	orderIDRaw, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return
	}
	orderID := uint(orderIDRaw)
	detailURL := fmt.Sprintf("/pedido/%d", orderID)
	isAjax := c.GetHeader("X-Requested-With") == "XMLHttpRequest"

	var req SendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		if isAjax {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid request body"})
			return
		}
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	username := c.GetString("username")
	superuser := c.GetBool("superuser")

	message, err := h.chatService.PostMessage(userID, username, superuser, orderID, req.Contenido)
	if err != nil {
		if !isAjax {
			// The form path never surfaces chat errors
			c.Redirect(http.StatusFound, detailURL)
			return
		}

		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			statusCode = http.StatusBadRequest
		case errors.Is(err, service.ErrOrderNotFound):
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"status": "error", "error": err.Error()})
		return
	}

	if isAjax {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"contenido": message.Contenido,
			"emisor":    username,
			"timestamp": message.CreatedAt.Format("15:04"),
		})
		return
	}

	c.Redirect(http.StatusFound, detailURL)
}
