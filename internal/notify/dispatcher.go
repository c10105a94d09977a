package notify

import (
	"fmt"
	"time"

	"github.com/nerdgeek/tienda/internal/journal"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

// Dispatcher fans out best-effort notifications after an order write has
// committed. Failures are logged and journaled, never returned: a dropped
// notification must not undo or block the write that triggered it.
type Dispatcher struct {
	email   EmailSender
	webhook WebhookSender
	journal *journal.Journal
	baseURL string
}

func NewDispatcher(email EmailSender, webhook WebhookSender, j *journal.Journal, baseURL string) *Dispatcher {
	return &Dispatcher{
		email:   email,
		webhook: webhook,
		journal: j,
		baseURL: baseURL,
	}
}

// NotifyAdminNewMessage alerts the shop owner that a customer wrote in an
// order thread.
func (d *Dispatcher) NotifyAdminNewMessage(order *models.Order, senderUsername string) {
	text := fmt.Sprintf("NerdGeek: Nuevo mensaje de %s en Pedido #%d", senderUsername, order.ID)

	err := d.webhook.Send(text)
	if err != nil {
		logger.Log.Warn("Webhook notification failed",
			zap.Uint("order_id", order.ID),
			zap.String("sender", senderUsername),
			zap.Error(err),
		)
	} else {
		logger.Log.Debug("Webhook notification sent",
			zap.Uint("order_id", order.ID),
		)
	}

	d.record("webhook", "admin", order.ID, text, err)
}

// NotifyStatusChange emails the order's owner about the new status.
func (d *Dispatcher) NotifyStatusChange(order *models.Order) {
	subject := fmt.Sprintf("NerdGeek: Actualización de Pedido #%d", order.ID)
	body := fmt.Sprintf(
		"Hola %s,\n\nTu pedido ha cambiado de estado a: %s.\n\nIngresa aquí para ver los detalles o chatear con nosotros:\n%s/pedido/%d",
		order.User.Username, order.Estado.Display(), d.baseURL, order.ID,
	)

	err := d.email.Send(order.User.Email, subject, body)
	if err != nil {
		logger.Log.Warn("Status change email failed",
			zap.Uint("order_id", order.ID),
			zap.String("to", order.User.Email),
			zap.Error(err),
		)
	} else {
		logger.Log.Debug("Status change email sent",
			zap.Uint("order_id", order.ID),
			zap.String("to", order.User.Email),
		)
	}

	d.record("email", order.User.Email, order.ID, subject, err)
}

func (d *Dispatcher) record(channel, target string, orderID uint, detail string, sendErr error) {
	if d.journal == nil {
		return
	}

	entry := journal.Entry{
		Channel:   channel,
		Target:    target,
		OrderID:   orderID,
		Detail:    detail,
		OK:        sendErr == nil,
		Timestamp: time.Now(),
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}

	if err := d.journal.Append(entry); err != nil {
		logger.Log.Error("Failed to journal notification attempt",
			zap.String("channel", channel),
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
	}
}
