package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shopbot/internal/config"
	"shopbot/internal/consumer"
	"shopbot/internal/dedupe"
	"shopbot/internal/handler"
	"shopbot/internal/llm"
	"shopbot/internal/messenger"
	"shopbot/internal/middleware"
	"shopbot/internal/monitor"
	"shopbot/internal/service/bot"
	"shopbot/internal/service/commerce"
	"shopbot/internal/service/intent"
	"shopbot/internal/shopify"
	"shopbot/pkg/log"
	"shopbot/pkg/queue"
	"shopbot/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to load config")
	}

	logConfig := log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	}
	if err := log.Init(logConfig); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to initialize logger")
	}

	// Pick up log-level changes without a restart. Everything else is wired
	// once at startup and keeps its boot-time value.
	config.WatchConfig(func(newCfg *config.Config) {
		if err := log.Init(log.Config{
			Level:      newCfg.Log.Level,
			Format:     newCfg.Log.Format,
			Output:     newCfg.Log.Output,
			Filename:   newCfg.Log.Filename,
			MaxSize:    newCfg.Log.MaxSize,
			MaxAge:     newCfg.Log.MaxAge,
			MaxBackups: newCfg.Log.MaxBackups,
			Compress:   newCfg.Log.Compress,
		}); err != nil {
			log.WithError(err).Error("Failed to apply reloaded log config")
			return
		}
		log.WithField("level", newCfg.Log.Level).Info("Log configuration reloaded")
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	tracer, err := monitor.NewTracer(&monitor.TracerConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		JaegerEndpoint: cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to create tracer")
	}

	// Inbound message queue
	messageQueue, err := queue.NewMemoryQueue(nil)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to create message queue")
	}

	// Message deduplication store
	var dedupeStore dedupe.Store
	if cfg.Dedupe.Enabled {
		redisStore, err := dedupe.NewRedisStore(cfg.Dedupe)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Fatal("Failed to connect dedupe store")
		}
		dedupeStore = redisStore
	} else {
		dedupeStore = dedupe.NewMemoryStore(cfg.Dedupe.TTL)
	}
	defer dedupeStore.Close()

	// Commerce operations, mode fixed at startup
	shopifyClient := shopify.NewClient(cfg.Shopify)
	operations := commerce.NewOperations(cfg.Commerce, shopifyClient)

	log.WithFields(map[string]interface{}{
		"mode": cfg.Commerce.Mode,
	}).Info("Commerce operations initialized")

	// Intent pipeline
	llmClient := llm.NewClient(cfg.OpenAI)
	extractor := intent.NewExtractor(llmClient)
	dispatcher := bot.NewDispatcher(extractor, operations)

	// Outbound replies
	sender := messenger.NewWhatsAppSender(cfg.WhatsApp)

	// Start the message consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messageConsumer := consumer.NewMessageConsumer(dispatcher, sender, dedupeStore, messageQueue, tracer)
	messageConsumer.Start(ctx)

	router := setupRouter(cfg, messageQueue)

	server := &http.Server{
		Addr:           cfg.Server.GetAddr(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": server.Addr,
			"mode": cfg.Server.Mode,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	messageConsumer.Stop()
	messageQueue.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Server forced to shutdown")
	}

	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Tracer shutdown failed")
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, messageQueue queue.Queue) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", healthCheck(messageQueue))
	router.GET("/ping", ping)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(monitor.Handler()))
	}

	webhookHandler := handler.NewWebhookHandler(cfg.WhatsApp, messageQueue)

	webhook := router.Group("/webhook")
	if cfg.RateLimit.Enabled {
		webhook.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	{
		webhook.GET("", webhookHandler.Verify)
		webhook.POST("", webhookHandler.Receive)
	}

	return router
}

func healthCheck(messageQueue queue.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := messageQueue.Health(); err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
			return
		}

		utils.SuccessResponse(c, gin.H{
			"status":    "ok",
			"timestamp": utils.GetCurrentTimestamp(),
			"version":   "1.0.0",
		})
	}
}

func ping(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"message":   "pong",
		"timestamp": utils.GetCurrentTimestamp(),
	})
}
