package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Server configuration
	Port          string
	Environment   string
	PublicBaseURL string

	// Event configuration
	EventName    string
	EventDate    string
	TicketPrefix string
	TicketPrice  decimal.Decimal
	Currency     string

	// Payment gateway (Mercado Pago)
	MPAccessToken string
	MPBaseURL     string

	// Mail configuration
	MailServer  string
	MailPort    int
	MailUseTLS  bool
	EmailUser   string
	EmailPass   string
	SenderName  string
	MailTimeout time.Duration

	// Admin panel
	AdminUser  string
	AdminPass  string
	SecretKey  string
	SessionTTL time.Duration

	// Ticket artifacts
	TicketTemplate string
	TicketFont     string
	ArtifactDir    string

	// Rate limiting (Redis)
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RateLimitPerMin int

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:          getEnv("PORT", "8090"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		// Event
		EventName:    getEnv("EVENT_NAME", "Lual na Praia"),
		EventDate:    getEnv("EVENT_DATE", "20/09/2025"),
		TicketPrefix: getEnv("TICKET_PREFIX", "LUAL"),
		TicketPrice:  getEnvAsDecimal("TICKET_PRICE", "100"),
		Currency:     getEnv("CURRENCY", "BRL"),

		// Mercado Pago
		MPAccessToken: getEnv("MP_ACCESS_TOKEN", ""),
		MPBaseURL:     getEnv("MP_BASE_URL", "https://api.mercadopago.com"),

		// Mail
		MailServer:  getEnv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:    getEnvAsInt("MAIL_PORT", 587),
		MailUseTLS:  getEnvAsBool("MAIL_USE_TLS", true),
		EmailUser:   getEnv("EMAIL_USER", ""),
		EmailPass:   getEnv("EMAIL_PASS", ""),
		SenderName:  getEnv("SENDER_NAME", "Lual na Praia"),
		MailTimeout: getEnvAsDuration("MAIL_TIMEOUT", "15s"),

		// Admin
		AdminUser:  getEnv("ADMIN_USER", "admin"),
		AdminPass:  getEnv("ADMIN_PASS", ""),
		SecretKey:  getEnv("SECRET_KEY", ""),
		SessionTTL: getEnvAsDuration("SESSION_TTL", "12h"),

		// Artifacts
		TicketTemplate: getEnv("TICKET_TEMPLATE", "ingresso.png"),
		TicketFont:     getEnv("TICKET_FONT", "DejaVuSans-Bold.ttf"),
		ArtifactDir:    getEnv("ARTIFACT_DIR", "tickets"),

		// Rate limiting
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		RateLimitPerMin: getEnvAsInt("RATE_LIMIT_PER_MIN", 30),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsDecimal(key string, defaultValue string) decimal.Decimal {
	valueStr := getEnv(key, defaultValue)
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	value, _ := decimal.NewFromString(defaultValue)
	return value
}
