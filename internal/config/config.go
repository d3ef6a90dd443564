package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Persistence
	StoreDriver string // "file" or "bolt"
	DataFile    string
	BoltPath    string

	// Reconciliation loop
	ReconcileInterval time.Duration

	// WhatsApp conversation sessions
	SessionStore  string // "memory" or "redis"
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string

	// Twilio WhatsApp channel
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioWhatsAppFrom  string
	TwilioWebhookSecret string

	// Automation trigger fired on every new booking
	AutomationWebhookURL string

	CORSAllowedOrigins []string

	ClinicName    string
	DefaultDoctor string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		StoreDriver: strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", "file"))),
		DataFile:    getEnv("DATA_FILE", "db.json"),
		BoltPath:    getEnv("BOLT_PATH", "clinic.db"),

		ReconcileInterval: getEnvAsDuration("RECONCILE_INTERVAL", 60*time.Second),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 0),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:  getEnv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886"),
		TwilioWebhookSecret: getEnv("TWILIO_WEBHOOK_SECRET", ""),

		AutomationWebhookURL: getEnv("AUTOMATION_WEBHOOK_URL", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		ClinicName:    getEnv("CLINIC_NAME", "Smile Dental Clinic"),
		DefaultDoctor: getEnv("DEFAULT_DOCTOR", "Dr. Sarah Wilson"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns
// a default value. Bare integers are interpreted as seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
