package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env       string
	Port      string
	AppName   string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SendgridKey string
	MailFrom    string

	RedisAddr    string
	RedisChannel string

	StorageDriver  string // local or gcs
	GCSBucket      string
	UploadDir      string
	UploadSecret   string
	UploadMaxBytes int64
	PublicBaseURL  string
	InternalAPIURL string

	NotificationRetentionDays int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	port := getEnv("PORT", "3000")
	publicBase := strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/")

	AppConfig = &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      port,
		AppName:   getEnv("APP_NAME", "LearnHub"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnhub"),

		SendgridKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:    getEnv("MAIL_FROM", "no-reply@learnhub.local"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "learnhub:realtime"),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "./public/uploads"),
		UploadSecret:   getEnv("UPLOAD_SECRET", "defaultSecret"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_MB", 512)) << 20,
		PublicBaseURL:  publicBase,
		InternalAPIURL: strings.TrimRight(getEnv("INTERNAL_API_URL", publicBase), "/"),

		NotificationRetentionDays: getEnvInt("NOTIFICATION_RETENTION_DAYS", 30),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.UploadSecret == "defaultSecret" {
		log.Println("Warning: Using default UPLOAD_SECRET. Update it in your environment.")
	}
	if AppConfig.StorageDriver == "gcs" && AppConfig.GCSBucket == "" {
		log.Println("Warning: STORAGE_DRIVER is gcs but GCS_BUCKET is empty.")
	}

	return AppConfig
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
