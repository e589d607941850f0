package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	SessionTTL      time.Duration
	RememberMeTTL   time.Duration
	RedisAddr       string
	KafkaBrokers    []string
	OrdersTopic     string
	OpenAIKey       string
	OpenAIModel     string
	SMTPHost        string
	SMTPPort        string
	SMTPFrom        string
	SMTPUser        string
	SMTPPassword    string
	AppBaseURL      string
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		SessionTTL:      getDurationEnv("SESSION_TTL_HOURS", 24, time.Hour),
		RememberMeTTL:   getDurationEnv("REMEMBER_ME_TTL_DAYS", 7, 24*time.Hour),
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", ""),
		KafkaBrokers:    splitCSV(getEnvOrDefault("KAFKA_BROKERS", "")),
		OrdersTopic:     getEnvOrDefault("ORDERS_TOPIC", "storefront.orders"),
		OpenAIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		SMTPHost:        getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:        getEnvOrDefault("SMTP_PORT", "587"),
		SMTPFrom:        getEnvOrDefault("SMTP_FROM", "no-reply@storefront.local"),
		SMTPUser:        getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword:    getEnvOrDefault("SMTP_PASSWORD", ""),
		AppBaseURL:      getEnvOrDefault("APP_BASE_URL", "http://localhost:3000"),
		LoginRateLimit:  getIntEnv("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getDurationEnv("LOGIN_RATE_WINDOW_MINUTES", 15, time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
