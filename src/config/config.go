package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/username/shipflow/backend/src/models"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	MaxUploadSizeBytes int64

	JWTSecret         string
	ServiceAPIKey     string
	AccessTokenExpiry time.Duration

	// Carrier account credentials, constant per deployment.
	CarrierLoginID    string
	CarrierLicenseKey string
	CarrierAPIType    string

	DefaultLabelSize string

	EmailServiceProvider string
	NotifyEmail          string

	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	MailgunDomain        string
	MailgunPrivateAPIKey string

	SenderEmail string
	SenderName  string
}

var Cfg *AppConfig

// CarrierProfile returns the configured carrier account as the canonical
// Profile section injected into every built request.
func (c *AppConfig) CarrierProfile() models.Profile {
	return models.Profile{
		LoginID:    c.CarrierLoginID,
		LicenceKey: c.CarrierLicenseKey,
		APIType:    c.CarrierAPIType,
	}
}

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jwtSecret := getEnv("JWT_SECRET", "your-very-secure-and-long-jwt-secret-key-for-hs256-minimum-32-bytes")
	if jwtSecret == "your-very-secure-and-long-jwt-secret-key-for-hs256-minimum-32-bytes" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET environment variable for production.")
	}

	apiKey := getEnv("SERVICE_API_KEY", "dev-api-key")
	if apiKey == "dev-api-key" {
		log.Println("WARNING: Using default SERVICE_API_KEY. Set SERVICE_API_KEY environment variable for production.")
	}

	accessTokenExpiryStr := getEnv("ACCESS_TOKEN_EXPIRY", "60m")
	accessTokenExpiry, err := time.ParseDuration(accessTokenExpiryStr)
	if err != nil {
		log.Printf("WARNING: Invalid ACCESS_TOKEN_EXPIRY format '%s'. Using default 60m. Error: %v", accessTokenExpiryStr, err)
		accessTokenExpiry = 60 * time.Minute
	}

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	defaultLabelSize := getEnv("DEFAULT_LABEL_SIZE", "A4")
	if defaultLabelSize != "A4" && defaultLabelSize != "A5" {
		log.Printf("WARNING: Invalid DEFAULT_LABEL_SIZE '%s'. Using A4.", defaultLabelSize)
		defaultLabelSize = "A4"
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./shipflow.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		JWTSecret:         jwtSecret,
		ServiceAPIKey:     apiKey,
		AccessTokenExpiry: accessTokenExpiry,

		CarrierLoginID:    getEnv("CARRIER_LOGIN_ID", "GG940111"),
		CarrierLicenseKey: getEnv("CARRIER_LICENSE_KEY", ""),
		CarrierAPIType:    getEnv("CARRIER_API_TYPE", "S"),

		DefaultLabelSize: defaultLabelSize,

		EmailServiceProvider: getEnv("EMAIL_SERVICE_PROVIDER", "mock"),
		NotifyEmail:          getEnv("NOTIFY_EMAIL", ""),

		SMTPServer:   getEnv("SMTP_SERVER", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunPrivateAPIKey: getEnv("MAILGUN_PRIVATE_API_KEY", ""),

		SenderEmail: getEnv("SENDER_EMAIL", "noreply@example.com"),
		SenderName:  getEnv("SENDER_NAME", "Shipflow App"),
	}

	if Cfg.CarrierLicenseKey == "" {
		log.Println("WARNING: CARRIER_LICENSE_KEY is not set. Built requests will carry an empty licence key.")
	}
	if Cfg.EmailServiceProvider == "mailgun" {
		if Cfg.MailgunDomain == "" || Cfg.MailgunPrivateAPIKey == "" {
			log.Fatalf("FATAL: MAILGUN_DOMAIN and MAILGUN_PRIVATE_API_KEY are required when EMAIL_SERVICE_PROVIDER is 'mailgun'.")
		}
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, EmailProvider=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.EmailServiceProvider)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}
