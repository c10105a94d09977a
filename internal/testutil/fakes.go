package testutil

import (
	"sync"

	"github.com/nerdgeek/tienda/internal/models"
)

// FakeEmail captures one send through FakeEmailSender.
type FakeEmail struct {
	To      string
	Subject string
	Body    string
}

// FakeEmailSender records sends and can be told to fail.
type FakeEmailSender struct {
	mu   sync.Mutex
	Sent []FakeEmail
	Err  error
}

func (f *FakeEmailSender) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, FakeEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (f *FakeEmailSender) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// FakeDispatcher counts notification attempts per channel.
type FakeDispatcher struct {
	mu                 sync.Mutex
	MessageAlerts      []uint // order IDs for which the admin was pinged
	StatusChangeAlerts []uint // order IDs whose owner was emailed
}

func (f *FakeDispatcher) NotifyAdminNewMessage(order *models.Order, senderUsername string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MessageAlerts = append(f.MessageAlerts, order.ID)
}

func (f *FakeDispatcher) NotifyStatusChange(order *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusChangeAlerts = append(f.StatusChangeAlerts, order.ID)
}
