package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.OpenAIConfig{
		APIKey:    "sk-test",
		Model:     "gpt-4o-mini",
		MaxTokens: 400,
		RPS:       100,
		Burst:     100,
	})
	client.SetBaseURL(server.URL)
	return client
}

func TestClient_Complete(t *testing.T) {
	t.Run("sends the chat request and returns the first choice", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotReq chatRequest

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.Write([]byte(`{"choices":[{"message":{"content":"  {\"action\":\"sales_summary\"}  "}}]}`))
		})

		out, err := client.Complete(context.Background(), "system prompt", "show me sales")
		require.NoError(t, err)
		assert.Equal(t, `{"action":"sales_summary"}`, out)

		assert.Equal(t, "/chat/completions", gotPath)
		assert.Equal(t, "Bearer sk-test", gotAuth)
		assert.Equal(t, "gpt-4o-mini", gotReq.Model)
		assert.Equal(t, 400, gotReq.MaxTokens)
		assert.Equal(t, "json_object", gotReq.ResponseFormat["type"])
		require.Len(t, gotReq.Messages, 2)
		assert.Equal(t, "system", gotReq.Messages[0].Role)
		assert.Equal(t, "system prompt", gotReq.Messages[0].Content)
		assert.Equal(t, "user", gotReq.Messages[1].Role)
		assert.Equal(t, "show me sales", gotReq.Messages[1].Content)
	})

	t.Run("non-200 status becomes an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
		})

		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty choices becomes an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		})

		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty choices")
	})

	t.Run("cancelled context aborts before the call", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Complete(ctx, "s", "u")
		require.Error(t, err)
		assert.False(t, called)
	})
}
