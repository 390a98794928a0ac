package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	APISecretKey   string
	AdminJWTSecret string

	// Engagement thresholds. The original deployment hardcoded these; they
	// are configuration here so operators can tune per deployment.
	MinMessagesBeforeReport  int
	MaxMessagesBeforeReport  int
	ScamConfidenceThreshold  float64
	FingerprintRiskIncrement float64
	AutoEscalate             bool

	// Escalation callback
	EscalationURL     string
	EscalationTimeout time.Duration

	// Alerting (all optional, best-effort)
	AlertWebhookURL  string
	TelegramBotToken string
	TelegramChatID   int64
	NATSURL          string
	NATSSubject      string

	// Text generation providers
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Stores
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration
	DatabaseURL   string

	SupportedLanguages []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APISecretKey:   getEnv("API_SECRET_KEY", "change-me-in-production"),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		MinMessagesBeforeReport:  getEnvAsInt("MIN_MESSAGES_BEFORE_REPORT", 6),
		MaxMessagesBeforeReport:  getEnvAsInt("MAX_MESSAGES_BEFORE_REPORT", 20),
		ScamConfidenceThreshold:  getEnvAsFloat("SCAM_CONFIDENCE_THRESHOLD", 0.30),
		FingerprintRiskIncrement: getEnvAsFloat("FINGERPRINT_RISK_INCREMENT", 0.15),
		AutoEscalate:             getEnvAsBool("AUTO_ESCALATE", true),

		EscalationURL:     getEnv("ESCALATION_URL", ""),
		EscalationTimeout: getEnvAsDuration("ESCALATION_TIMEOUT", 10*time.Second),

		AlertWebhookURL:  getEnv("ALERT_WEBHOOK_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
		NATSURL:          getEnv("NATS_URL", ""),
		NATSSubject:      getEnv("NATS_ALERT_SUBJECT", "honeypot.alerts"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		SupportedLanguages: splitList(getEnv("SUPPORTED_LANGUAGES", "en,hi,ta,te,kn,ml,bn,mr,gu,pa")),
	}
}

// Validate rejects configurations the engine's decision functions cannot be
// total over. Called once at startup; runtime code assumes a valid config.
func (c *Config) Validate() error {
	if c.MinMessagesBeforeReport < 0 {
		return fmt.Errorf("config: MIN_MESSAGES_BEFORE_REPORT must be >= 0, got %d", c.MinMessagesBeforeReport)
	}
	if c.MaxMessagesBeforeReport <= c.MinMessagesBeforeReport {
		return fmt.Errorf("config: MAX_MESSAGES_BEFORE_REPORT (%d) must exceed MIN_MESSAGES_BEFORE_REPORT (%d)",
			c.MaxMessagesBeforeReport, c.MinMessagesBeforeReport)
	}
	if c.ScamConfidenceThreshold < 0 || c.ScamConfidenceThreshold > 1 {
		return fmt.Errorf("config: SCAM_CONFIDENCE_THRESHOLD must be in [0,1], got %v", c.ScamConfidenceThreshold)
	}
	if c.FingerprintRiskIncrement <= 0 || c.FingerprintRiskIncrement > 1 {
		return fmt.Errorf("config: FINGERPRINT_RISK_INCREMENT must be in (0,1], got %v", c.FingerprintRiskIncrement)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	if len(c.SupportedLanguages) == 0 {
		return fmt.Errorf("config: SUPPORTED_LANGUAGES must not be empty")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
