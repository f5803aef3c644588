package initializers

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DBDriver      string
	MongoURI      string
	MongoDatabase string
	MongoUsername string
	MongoPassword string

	JWTSecret     string
	AdminTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
	SMTPTimeout  time.Duration

	StoreName    string
	SupportEmail string
	SupportPhone string

	CORSOrigins []string

	LoginRateLimit   int
	LoginRateWindow  time.Duration
	RateLimitBackend string

	UploadBucket string
	UploadDir    string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// LoadEnv reads .env when present and builds the Config from the environment.
func LoadEnv() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "mongodb")),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "tannaro"),
		MongoUsername: os.Getenv("MONGODB_USERNAME"),
		MongoPassword: os.Getenv("MONGODB_PASSWORD"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminTokenTTL: getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPTimeout:  getEnvDuration("SMTP_TIMEOUT", 30*time.Second),

		StoreName:    getEnv("STORE_NAME", "TANNARO"),
		SupportEmail: os.Getenv("SUPPORT_EMAIL"),
		SupportPhone: os.Getenv("SUPPORT_PHONE"),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow:  getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		RateLimitBackend: strings.ToLower(getEnv("RATE_LIMIT_BACKEND", "memory")),

		UploadBucket: os.Getenv("UPLOAD_BUCKET"),
		UploadDir:    getEnv("UPLOAD_DIR", "public/uploads/products"),

		AdminName:     getEnv("ADMIN_NAME", "Admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultValue.String())
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
