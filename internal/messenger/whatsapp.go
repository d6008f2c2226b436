package messenger

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopbot/internal/config"
	"shopbot/pkg/utils"
)

// Sender is the outbound reply contract the consumer depends on
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// WhatsAppSender sends text replies through the Meta Cloud API
type WhatsAppSender struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

// NewWhatsAppSender creates a sender from configuration
func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	timeout := cfg.SendTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppSender{
		baseURL:       strings.TrimSuffix(cfg.GraphBaseURL, "/"),
		phoneNumberID: cfg.PhoneNumberID,
		accessToken:   cfg.AccessToken,
		http:          &http.Client{Timeout: timeout},
	}
}

// SetBaseURL overrides the graph API base URL. Only call this from tests.
func (s *WhatsAppSender) SetBaseURL(u string) {
	s.baseURL = strings.TrimSuffix(u, "/")
}

// SendText delivers one text message to the given phone number
func (s *WhatsAppSender) SendText(ctx context.Context, to, body string) error {
	url := fmt.Sprintf("%s/v18.0/%s/messages", s.baseURL, s.phoneNumberID)
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return utils.NewError(utils.CodeMessengerError, fmt.Sprintf("send status %d: %s", resp.StatusCode, string(respBody)))
	}
	return nil
}

// VerifySignature checks the X-Hub-Signature-256 header Meta attaches to
// webhook deliveries
func VerifySignature(appSecret string, body []byte, header string) bool {
	if header == "" {
		return false
	}
	expected := strings.TrimPrefix(header, "sha256=")
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	computed := fmt.Sprintf("%x", mac.Sum(nil))
	return hmac.Equal([]byte(computed), []byte(expected))
}
