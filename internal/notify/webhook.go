package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WebhookSender relays a short text message to the shop owner's phone.
type WebhookSender interface {
	Send(text string) error
}

// CallMeBotSender issues a GET request to a CallMeBot-style WhatsApp relay.
// The endpoint takes the phone number, message text and API key as query
// parameters.
type CallMeBotSender struct {
	baseURL string
	phone   string
	apiKey  string
	client  *http.Client
}

func NewCallMeBotSender(baseURL, phone, apiKey string, timeout time.Duration) *CallMeBotSender {
	return &CallMeBotSender{
		baseURL: baseURL,
		phone:   phone,
		apiKey:  apiKey,
		client: &http.Client{
			// A slow relay must not hold a request open indefinitely
			Timeout: timeout,
		},
	}
}

func (s *CallMeBotSender) Send(text string) error {
	params := url.Values{}
	params.Set("phone", s.phone)
	params.Set("text", text)
	params.Set("apikey", s.apiKey)

	resp, err := s.client.Get(s.baseURL + "?" + params.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook relay returned status %d", resp.StatusCode)
	}

	return nil
}
