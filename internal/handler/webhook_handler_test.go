package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/internal/config"
	"shopbot/internal/model"
	"shopbot/pkg/queue"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newWebhookRouter(t *testing.T, cfg config.WhatsAppConfig) (*gin.Engine, queue.Queue) {
	t.Helper()

	q, err := queue.NewMemoryQueue(nil)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	h := NewWebhookHandler(cfg, q)

	router := gin.New()
	router.GET("/webhook", h.Verify)
	router.POST("/webhook", h.Receive)
	return router, q
}

func textPayload(id, from, body string) []byte {
	payload := model.WebhookPayload{
		Entry: []model.WebhookEntry{{
			Changes: []model.WebhookChange{{
				Value: model.WebhookValue{
					Messages: []model.InboundMessage{{
						ID:   id,
						From: from,
						Type: "text",
						Text: &model.MessageText{Body: body},
					}},
				},
			}},
		}},
	}
	data, _ := json.Marshal(payload)
	return data
}

func consumeOne(t *testing.T, q queue.Queue) model.QueuedMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	data, err := q.Consume(ctx, InboundTopic)
	require.NoError(t, err)

	var msg model.QueuedMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebhookHandler_Verify(t *testing.T) {
	router, _ := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "my-token"})

	t.Run("valid handshake echoes the challenge", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=my-token&hub.challenge=12345", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "12345", w.Body.String())
	})

	t.Run("wrong token is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong mode is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=unsubscribe&hub.verify_token=my-token&hub.challenge=12345", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestWebhookHandler_Receive(t *testing.T) {
	t.Run("text message is acked and enqueued", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook",
			bytes.NewReader(textPayload("wamid.1", "15551234567", "update price of Blue Shirt to 499")))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		msg := consumeOne(t, q)
		assert.Equal(t, "wamid.1", msg.ID)
		assert.Equal(t, "15551234567", msg.From)
		assert.Equal(t, "update price of Blue Shirt to 499", msg.Text)
	})

	t.Run("whitespace-only body is acked but not enqueued", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook",
			bytes.NewReader(textPayload("wamid.2", "15551234567", "   \n ")))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assertQueueEmpty(t, q)
	})

	t.Run("non-text message is acked but not enqueued", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t"})

		payload := model.WebhookPayload{
			Entry: []model.WebhookEntry{{
				Changes: []model.WebhookChange{{
					Value: model.WebhookValue{
						Messages: []model.InboundMessage{{ID: "wamid.3", From: "1555", Type: "image"}},
					},
				}},
			}},
		}
		data, _ := json.Marshal(payload)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(data))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assertQueueEmpty(t, q)
	})

	t.Run("status payload without messages is acked", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook",
			bytes.NewReader([]byte(`{"object":"whatsapp_business_account","entry":[]}`)))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assertQueueEmpty(t, q)
	})

	t.Run("valid signature is accepted", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t", AppSecret: "app-secret"})

		body := textPayload("wamid.4", "1555", "hello")
		mac := hmac.New(sha256.New, []byte("app-secret"))
		mac.Write(body)
		sig := fmt.Sprintf("sha256=%x", mac.Sum(nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
		req.Header.Set("X-Hub-Signature-256", sig)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		msg := consumeOne(t, q)
		assert.Equal(t, "wamid.4", msg.ID)
	})

	t.Run("invalid signature is rejected before enqueue", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t", AppSecret: "app-secret"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook",
			bytes.NewReader(textPayload("wamid.5", "1555", "hello")))
		req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assertQueueEmpty(t, q)
	})

	t.Run("missing signature is rejected when a secret is configured", func(t *testing.T) {
		router, q := newWebhookRouter(t, config.WhatsAppConfig{VerifyToken: "t", AppSecret: "app-secret"})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook",
			bytes.NewReader(textPayload("wamid.6", "1555", "hello")))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assertQueueEmpty(t, q)
	})
}

func assertQueueEmpty(t *testing.T, q queue.Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Consume(ctx, InboundTopic)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
