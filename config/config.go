package config

import (
	"log/slog"
	"os"
	"time"
)

// App holds all runtime configuration, loaded from the environment.
// The delivery fees are business policy, not constants, so they are
// configurable here with the current policy values as defaults.
type App struct {
	Port     string
	MongoURI string
	DBName   string
	Env      string

	SessionTTL time.Duration

	PostmarkToken string
	EmailSender   string
	PublicBaseURL string

	StandardDeliveryFee string
	ExtendedDeliveryFee string
}

// Load reads configuration from the environment
func Load() App {
	return App{
		Port:     getenv("PORT", "8000"),
		MongoURI: must("MONGODB_URI"),
		DBName:   getenv("DB_NAME", "peakgear"),
		Env:      getenv("APP_ENV", "dev"),

		SessionTTL: getduration("SESSION_TTL", 7*24*time.Hour),

		PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:   getenv("EMAIL_SENDER", "noreply@peakgearto.com"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8000"),

		StandardDeliveryFee: getenv("STANDARD_DELIVERY_FEE", "49.99"),
		ExtendedDeliveryFee: getenv("EXTENDED_DELIVERY_FEE", "89.99"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", k, "value", v)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
