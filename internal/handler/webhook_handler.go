package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopbot/internal/config"
	"shopbot/internal/messenger"
	"shopbot/internal/model"
	"shopbot/internal/monitor"
	"shopbot/pkg/log"
	"shopbot/pkg/queue"
)

// InboundTopic is the queue topic carrying webhook messages to the consumer
const InboundTopic = "inbound_messages"

// WebhookHandler terminates the Meta Cloud API webhook: verification
// handshake, signature check, and fast ack with enqueue. Actual message
// processing happens in the consumer so Meta gets its 200 quickly.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	queue       queue.Queue
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(cfg config.WhatsAppConfig, q queue.Queue) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: cfg.VerifyToken,
		appSecret:   cfg.AppSecret,
		queue:       q,
	}
}

// Verify handles the GET verification handshake
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	challenge := c.Query("hub.challenge")
	token := c.Query("hub.verify_token")

	if mode == "subscribe" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "forbidden")
}

// Receive handles webhook deliveries. It acks immediately after the
// signature check; enqueueing is in-process and cheap.
func (h *WebhookHandler) Receive(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		log.WithError(err).Warn("Failed to read webhook body")
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	if h.appSecret != "" {
		if !messenger.VerifySignature(h.appSecret, rawBody, c.GetHeader("X-Hub-Signature-256")) {
			log.Warn("Webhook signature verification failed")
			c.String(http.StatusForbidden, "forbidden")
			return
		}
	}

	c.String(http.StatusOK, "ok")

	h.enqueue(c.Request.Context(), rawBody)
}

// enqueue publishes every usable text message from the payload. Status and
// delivery receipt payloads decode to an empty message list and fall
// through. Empty and whitespace-only bodies are ignored entirely.
func (h *WebhookHandler) enqueue(ctx context.Context, rawBody []byte) {
	var payload model.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		log.WithError(err).Warn("Failed to decode webhook payload")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text == nil {
					monitor.MessageReceived(msg.Type)
					log.WithFields(map[string]interface{}{
						"type": msg.Type,
						"from": msg.From,
					}).Debug("Ignoring non-text message")
					continue
				}

				text := strings.TrimSpace(msg.Text.Body)
				if text == "" {
					continue
				}

				monitor.MessageReceived("text")

				data, err := json.Marshal(model.QueuedMessage{
					ID:   msg.ID,
					From: msg.From,
					Text: text,
				})
				if err != nil {
					log.WithError(err).Error("Failed to marshal queued message")
					continue
				}

				if err := h.queue.Publish(ctx, InboundTopic, data); err != nil {
					log.WithFields(map[string]interface{}{
						"message_id": msg.ID,
						"error":      err.Error(),
					}).Error("Failed to enqueue inbound message")
				}
			}
		}
	}
}
