package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{}
	c.SetDefaults()
	c.OpenAI.APIKey = "sk-test"
	c.WhatsApp.VerifyToken = "verify"
	return c
}

func TestConfig_SetDefaults(t *testing.T) {
	c := &Config{}
	c.SetDefaults()

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "debug", c.Server.Mode)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "gpt-4o-mini", c.OpenAI.Model)
	assert.Equal(t, 400, c.OpenAI.MaxTokens)
	assert.Equal(t, "https://api.openai.com/v1", c.OpenAI.BaseURL)
	assert.Equal(t, "2024-07", c.Shopify.APIVersion)
	assert.Equal(t, ModeMock, c.Commerce.Mode)
	assert.Equal(t, "https://graph.facebook.com", c.WhatsApp.GraphBaseURL)
	assert.Equal(t, 24*time.Hour, c.Dedupe.TTL)
	assert.Equal(t, "/metrics", c.Metrics.Path)
	assert.Equal(t, "shopbot", c.Tracing.ServiceName)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid mock config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("invalid port", func(t *testing.T) {
		c := validConfig()
		c.Server.Port = -1
		assert.Error(t, c.Validate())
	})

	t.Run("invalid commerce mode", func(t *testing.T) {
		c := validConfig()
		c.Commerce.Mode = "dry-run"
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "commerce mode")
	})

	t.Run("missing openai api key", func(t *testing.T) {
		c := validConfig()
		c.OpenAI.APIKey = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing verify token", func(t *testing.T) {
		c := validConfig()
		c.WhatsApp.VerifyToken = ""
		assert.Error(t, c.Validate())
	})

	t.Run("live mode requires shopify credentials", func(t *testing.T) {
		c := validConfig()
		c.Commerce.Mode = ModeLive
		assert.Error(t, c.Validate())

		c.Shopify.Domain = "test.myshopify.com"
		assert.Error(t, c.Validate())

		c.Shopify.AccessToken = "shpat_x"
		assert.NoError(t, c.Validate())
	})
}

func TestCommerceConfig_IsLive(t *testing.T) {
	assert.False(t, (&CommerceConfig{Mode: ModeMock}).IsLive())
	assert.True(t, (&CommerceConfig{Mode: ModeLive}).IsLive())
	assert.False(t, (&CommerceConfig{}).IsLive())
}

func TestGetAddr(t *testing.T) {
	s := &ServerConfig{Host: "127.0.0.1", Port: 9090}
	assert.Equal(t, "127.0.0.1:9090", s.GetAddr())

	empty := &ServerConfig{}
	assert.Equal(t, "0.0.0.0:8080", empty.GetAddr())

	r := &RedisConfig{}
	assert.Equal(t, "localhost:6379", r.GetAddr())
}
