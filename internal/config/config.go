package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside development")

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
	Assets   AssetsConfig
	AR       ARConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	CookieTTL time.Duration
}

type PaymentConfig struct {
	Provider          string // "stripe" or "midtrans"
	Currency          string
	StripeSecretKey   string
	MidtransServerKey string
	IsProduction      bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AssetsConfig struct {
	Store         string // "http" or "s3"
	BaseURL       string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	PresignExpiry time.Duration
}

type ARConfig struct {
	PlacementMode string // "accumulate" or "single"
	SessionTTL    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 2*time.Hour),
			CookieTTL: getEnvAsDuration("COOKIE_TTL", 72*time.Hour),
		},
		Payment: PaymentConfig{
			Provider:          strings.ToLower(getEnv("PAYMENT_PROVIDER", "stripe")),
			Currency:          getEnv("PAYMENT_CURRENCY", "pkr"),
			StripeSecretKey:   getEnv("STRIPE_SECRET_KEY", ""),
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			IsProduction:      getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AR Storefront"),
		},
		Assets: AssetsConfig{
			Store:         strings.ToLower(getEnv("ASSET_STORE", "http")),
			BaseURL:       getEnv("ASSET_BASE_URL", "http://localhost:3000"),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
			PresignExpiry: getEnvAsDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),
		},
		AR: ARConfig{
			PlacementMode: strings.ToLower(getEnv("AR_PLACEMENT_MODE", "accumulate")),
			SessionTTL:    getEnvAsDuration("AR_SESSION_TTL", time.Hour),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Validate reports configuration the server must not start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		return ErrMissingJWTSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
