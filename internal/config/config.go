package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	ServerPort  string
	Environment string
	JWTExpiry   time.Duration

	// Public base URL used in activation and order links
	BaseURL string

	// Account activation tokens
	ActivationSecret string
	ActivationTTL    time.Duration

	// Outbound email (SMTP)
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// WhatsApp relay webhook (CallMeBot-style)
	WebhookURL    string
	WebhookPhone  string
	WebhookAPIKey string
	NotifyTimeout time.Duration

	// Notification audit journal
	JournalPath string

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitBlockTime   time.Duration

	// Catalog cache
	CatalogCacheTTL time.Duration
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ServerPort:  os.Getenv("SERVER_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		JWTExpiry:   getEnvAsDuration("JWT_EXPIRY", "24h"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		ActivationSecret: os.Getenv("ACTIVATION_SECRET"),
		ActivationTTL:    getEnvAsDuration("ACTIVATION_TOKEN_TTL", "72h"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@nerdgeek.cl"),

		WebhookURL:    getEnv("WEBHOOK_URL", "https://api.callmebot.com/whatsapp.php"),
		WebhookPhone:  os.Getenv("WEBHOOK_PHONE"),
		WebhookAPIKey: os.Getenv("WEBHOOK_API_KEY"),
		NotifyTimeout: getEnvAsDuration("NOTIFY_TIMEOUT", "5s"),

		JournalPath: getEnv("JOURNAL_PATH", "data/notifications.log"),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitBlockTime:   getEnvAsDuration("RATE_LIMIT_BLOCK_TIME", "5m"),

		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", "5m"),
	}

	if cfg.ActivationSecret == "" {
		// Activation links must stay valid across restarts, so the secret
		// cannot be generated on the fly.
		cfg.ActivationSecret = cfg.JWTSecret
	}

	return cfg
}

// getEnv retrieves environment variable with default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
