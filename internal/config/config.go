package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database configuration
	DBDriver string

	// YDB configuration
	SPYDBEndpoint         string
	SPYDBDatabasePath     string
	SPYDBAutoCreateTables int

	// Postgres configuration
	PostgresDSN string

	// Redis configuration
	RedisURL string

	// S3/Storage configuration
	S3Endpoint         string
	S3Region           string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	VideoBucket        string

	// Telegram configuration
	TelegramBotToken    string
	TelegramAdminChatID string

	// JWT configuration
	JWTSecretKey string

	// Email/Postbox configuration
	SESEndpoint        string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
	EmailFrom          string
	SupportEmail       string

	// Public addressing
	PublicBaseURL string
	TimeZone      string

	// Plan configuration
	UploadLimitMBFree       int64
	UploadLimitMBIndividual int64
	UploadLimitMBTeam       int64
	PaymentInstructions     string

	// HTTP configuration
	HTTPPort string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	s3Endpoint := getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net")
	// Пустое значение переменной перекрывает default, поэтому возвращаем его вручную
	if s3Endpoint == "" {
		s3Endpoint = "https://storage.yandexcloud.net"
	}
	if !strings.HasPrefix(s3Endpoint, "http://") && !strings.HasPrefix(s3Endpoint, "https://") {
		s3Endpoint = "https://" + s3Endpoint
		log.Printf("WARN: S3_ENDPOINT was missing a protocol scheme. Prepending 'https://'. New endpoint: %s", s3Endpoint)
	}

	return &Config{
		DBDriver: strings.ToLower(getEnv("VL_DB_DRIVER", "ydb")),

		// YDB configuration
		SPYDBEndpoint:         os.Getenv("VL_YDB_ENDPOINT"),
		SPYDBDatabasePath:     os.Getenv("VL_YDB_DATABASE_PATH"),
		SPYDBAutoCreateTables: getEnvInt("VL_YDB_AUTO_CREATE_TABLES", 0, 0, 1),

		// Postgres configuration
		PostgresDSN: os.Getenv("VL_POSTGRES_DSN"),

		// Redis configuration
		RedisURL: os.Getenv("VL_REDIS_URL"),

		// S3/Storage configuration
		S3Endpoint:         s3Endpoint,
		S3Region:           getEnv("S3_REGION", "ru-central1"),
		AWSAccessKeyID:     os.Getenv("VL_SA_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("VL_SA_KEY"),
		VideoBucket:        getEnv("VL_OBJSTORE_BUCKET", "vidlinkgen-videos"),

		// Telegram configuration
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID: os.Getenv("TELEGRAM_CHAT_ID"),

		// JWT configuration
		JWTSecretKey: os.Getenv("VL_JWT_SECRET_KEY"),

		// Email/Postbox configuration
		SESEndpoint:        os.Getenv("VL_POSTBOX_ENDPOINT"),
		SESRegion:          getEnv("VL_POSTBOX_REGION", "ru-central1"),
		SESAccessKeyID:     os.Getenv("VL_POSTBOX_ACCESS_KEY_ID"),
		SESSecretAccessKey: os.Getenv("VL_POSTBOX_SECRET_ACCESS_KEY"),
		EmailFrom:          os.Getenv("VL_EMAIL_FROM"),
		SupportEmail:       os.Getenv("VL_SUPPORT_EMAIL"),

		// Public addressing
		PublicBaseURL: strings.TrimRight(getEnv("VL_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		TimeZone:      getEnv("VL_TIMEZONE", "Local"),

		// Plan configuration
		UploadLimitMBFree:       int64(getEnvInt("upload_limit_mb_free", 512, 1, 10240)),
		UploadLimitMBIndividual: int64(getEnvInt("upload_limit_mb_individual", 2048, 1, 102400)),
		UploadLimitMBTeam:       int64(getEnvInt("upload_limit_mb_team", 10240, 1, 1024000)),
		PaymentInstructions: getEnv("VL_PAYMENT_INSTRUCTIONS",
			"Pay by bank transfer or mobile money and send the receipt to support. An administrator activates your plan manually."),

		// HTTP configuration
		HTTPPort: getEnv("VL_HTTP_PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback, min, max int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			if n < min {
				return min
			}
			if n > max {
				return max
			}
			return n
		}
		log.Printf("WARN: %s=%q is not an integer, using default %d", key, v, fallback)
	}

	if fallback < min {
		return min
	}
	if fallback > max {
		return max
	}
	return fallback
}
