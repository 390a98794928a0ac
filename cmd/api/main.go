package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/scamshield/honeypot/internal/agent"
	"github.com/scamshield/honeypot/internal/alerts"
	"github.com/scamshield/honeypot/internal/api/router"
	"github.com/scamshield/honeypot/internal/archive"
	"github.com/scamshield/honeypot/internal/automation"
	appconfig "github.com/scamshield/honeypot/internal/config"
	"github.com/scamshield/honeypot/internal/emotion"
	"github.com/scamshield/honeypot/internal/engine"
	"github.com/scamshield/honeypot/internal/fingerprint"
	"github.com/scamshield/honeypot/internal/http/handlers"
	"github.com/scamshield/honeypot/internal/observability/metrics"
	"github.com/scamshield/honeypot/internal/persona"
	"github.com/scamshield/honeypot/internal/report"
	"github.com/scamshield/honeypot/internal/scam"
	"github.com/scamshield/honeypot/internal/session"
	"github.com/scamshield/honeypot/internal/tactics"
	"github.com/scamshield/honeypot/pkg/logging"
)

func main() {
	// Load configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()
	if err := cfg.Validate(); err != nil {
		logging.Default().Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting honeypot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Session store: Redis when configured so replicas share engagement
	// state, in-memory otherwise.
	var store session.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(client, cfg.SessionTTL, nil)
		logger.Info("using Redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	} else {
		store = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	// Text generation: Gemini primary, OpenAI fallback. With neither key
	// configured the engine serves scripted replies only.
	var llm agent.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := agent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llm = gemini
	}
	if cfg.OpenAIAPIKey != "" {
		oa, err := agent.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Error("failed to initialize OpenAI client", "error", err)
			os.Exit(1)
		}
		if llm != nil {
			llm = agent.NewFallbackLLMClient(llm, oa, logger.Logger)
		} else {
			llm = oa
		}
	}
	useLLM := llm != nil
	if !useLLM {
		logger.Warn("no text generation provider configured, using scripted replies")
	}

	facts := agent.NewFactClient(logger.Logger, rand.New(rand.NewSource(time.Now().UnixNano())))
	victimAgent := agent.New(llm, logger.Logger, rand.New(rand.NewSource(time.Now().UnixNano())), agent.Config{
		Facts: facts,
	})

	// Alert notifiers, each optional and best-effort.
	var notifiers []alerts.Notifier
	if cfg.AlertWebhookURL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(cfg.AlertWebhookURL))
		logger.Info("webhook alerts enabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		tg, err := alerts.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("failed to initialize Telegram alerts", "error", err)
			os.Exit(1)
		}
		notifiers = append(notifiers, tg)
		logger.Info("Telegram alerts enabled", "chat_id", cfg.TelegramChatID)
	}
	if cfg.NATSURL != "" {
		nc, err := alerts.NewNATSNotifier(cfg.NATSURL, cfg.NATSSubject, logger.Logger)
		if err != nil {
			logger.Error("failed to connect to NATS", "url", cfg.NATSURL, "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		notifiers = append(notifiers, nc)
		logger.Info("NATS alerts enabled", "subject", cfg.NATSSubject)
	}
	var notifier alerts.Notifier
	if len(notifiers) > 0 {
		notifier = alerts.NewFanout(logger.Logger, notifiers...)
	}

	// Escalation report sink
	var reporter report.Sink
	if cfg.EscalationURL != "" {
		reporter = report.NewHTTPSink(cfg.EscalationURL, cfg.EscalationTimeout, logger.Logger)
		logger.Info("escalation callback enabled", "url", cfg.EscalationURL)
	} else {
		logger.Warn("no escalation URL configured, reports will not be delivered")
	}

	// Postgres archive for completed sessions and fingerprints.
	var archiveStore *archive.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		archiveStore = archive.NewStore(db)
		if err := archiveStore.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare archive schema", "error", err)
			os.Exit(1)
		}
		logger.Info("session archive enabled")
	}

	engineMetrics := metrics.NewEngineMetrics(nil)

	tracker := fingerprint.NewTracker(cfg.FingerprintRiskIncrement)
	policy := automation.Policy{
		Enabled:     cfg.AutoEscalate,
		MinMessages: cfg.MinMessagesBeforeReport,
		MaxMessages: cfg.MaxMessagesBeforeReport,
		MinIntel:    1,
	}

	eng := engine.New(engine.Config{
		Store:    store,
		Detector: scam.NewDetector(cfg.ScamConfidenceThreshold),
		Emotions: emotion.NewManager(rand.New(rand.NewSource(time.Now().UnixNano()))),
		Tactics:  tactics.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano()))),
		Personas: persona.NewGenerator(),
		Tracker:  tracker,
		Policy:   policy,
		Agent:    victimAgent,
		UseLLM:   useLLM,
		Reporter: reporter,
		Notifier: notifier,
		Archive:  archiveStore,
		Metrics:  engineMetrics,
		Logger:   logger.Logger,
	})

	// Initialize handlers
	honeypotHandler := handlers.NewHoneypotHandler(eng, store, tracker, policy, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:          logger,
		Honeypot:        honeypotHandler,
		APIKey:          cfg.APISecretKey,
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.Handler(),
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
