package config

import (
	"fmt"
	"time"
)

// Commerce operation modes
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Config represents the global configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Shopify   ShopifyConfig   `mapstructure:"shopify"`
	Commerce  CommerceConfig  `mapstructure:"commerce"`
	Dedupe    DedupeConfig    `mapstructure:"dedupe"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// WhatsAppConfig represents Meta Cloud API webhook configuration
type WhatsAppConfig struct {
	VerifyToken   string        `mapstructure:"verify_token"`
	AppSecret     string        `mapstructure:"app_secret"`
	PhoneNumberID string        `mapstructure:"phone_number_id"`
	AccessToken   string        `mapstructure:"access_token"`
	GraphBaseURL  string        `mapstructure:"graph_base_url"`
	SendTimeout   time.Duration `mapstructure:"send_timeout"`
}

// OpenAIConfig represents model completion API configuration
type OpenAIConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RPS       float64       `mapstructure:"rps"`
	Burst     int           `mapstructure:"burst"`
}

// ShopifyConfig represents Shopify admin API configuration
type ShopifyConfig struct {
	Domain      string        `mapstructure:"domain"`
	AccessToken string        `mapstructure:"access_token"`
	APIVersion  string        `mapstructure:"api_version"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CommerceConfig selects the commerce operations implementation
type CommerceConfig struct {
	Mode string `mapstructure:"mode"` // mock, live
}

// DedupeConfig represents inbound message deduplication configuration
type DedupeConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RateLimitConfig represents webhook rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TracingConfig represents tracing configuration
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// GetAddr returns the server address
func (s *ServerConfig) GetAddr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetAddr returns the Redis address
func (r *RedisConfig) GetAddr() string {
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.Port == 0 {
		r.Port = 6379
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsLive reports whether commerce operations run against the real API
func (c *CommerceConfig) IsLive() bool {
	return c.Mode == ModeLive
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Commerce.Mode != ModeMock && c.Commerce.Mode != ModeLive {
		return fmt.Errorf("invalid commerce mode: %q (want %q or %q)", c.Commerce.Mode, ModeMock, ModeLive)
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api_key is required")
	}

	if c.WhatsApp.VerifyToken == "" {
		return fmt.Errorf("whatsapp verify_token is required")
	}

	if c.Commerce.IsLive() {
		if c.Shopify.Domain == "" {
			return fmt.Errorf("shopify domain is required in live mode")
		}
		if c.Shopify.AccessToken == "" {
			return fmt.Errorf("shopify access_token is required in live mode")
		}
	}

	return nil
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.WhatsApp.GraphBaseURL == "" {
		c.WhatsApp.GraphBaseURL = "https://graph.facebook.com"
	}
	if c.WhatsApp.SendTimeout == 0 {
		c.WhatsApp.SendTimeout = 10 * time.Second
	}

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 400
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 30 * time.Second
	}
	if c.OpenAI.RPS == 0 {
		c.OpenAI.RPS = 5
	}
	if c.OpenAI.Burst == 0 {
		c.OpenAI.Burst = 10
	}

	if c.Shopify.APIVersion == "" {
		c.Shopify.APIVersion = "2024-07"
	}
	if c.Shopify.Timeout == 0 {
		c.Shopify.Timeout = 30 * time.Second
	}

	if c.Commerce.Mode == "" {
		c.Commerce.Mode = ModeMock
	}

	if c.Dedupe.TTL == 0 {
		c.Dedupe.TTL = 24 * time.Hour
	}
	if c.Dedupe.Redis.PoolSize == 0 {
		c.Dedupe.Redis.PoolSize = 10
	}
	if c.Dedupe.Redis.DialTimeout == 0 {
		c.Dedupe.Redis.DialTimeout = 5 * time.Second
	}
	if c.Dedupe.Redis.ReadTimeout == 0 {
		c.Dedupe.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Dedupe.Redis.WriteTimeout == 0 {
		c.Dedupe.Redis.WriteTimeout = 3 * time.Second
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "shopbot"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
}
