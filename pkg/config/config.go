package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Google    GoogleConfig
	Mailjet   MailjetConfig
	Xendit    XenditConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Worker    WorkerConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	PublicURL   string
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
	UploadDir   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type GoogleConfig struct {
	ClientID string
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type XenditConfig struct {
	XenditSecretKey                string
	XenditUrl                      string
	RedirectUrl                    string
	XenditWebhookVerificationToken string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// Enabled reports whether a redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.RedisHost != ""
}

type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	ConsumerGroup     string
}

// Enabled reports whether notifications travel through kafka instead of
// the in-process dispatcher.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type WorkerConfig struct {
	MetricsPort string
}

type TelemetryConfig struct {
	OTLPEndpoint string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, errors.New("invalid jwt ttl")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "myShopHub API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			PublicURL:   getEnv("APP_PUBLIC_URL", "http://localhost:5000"),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "myshophub"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       jwtTTL,
		},
		Google: GoogleConfig{
			ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", "https://api.mailjet.com"),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", "myShopHub"),
		},
		Xendit: XenditConfig{
			XenditSecretKey:                getEnv("XENDIT_SECRET_KEY", ""),
			XenditUrl:                      getEnv("XENDIT_URL", "https://api.xendit.co/v2/invoices"),
			RedirectUrl:                    getEnv("REDIRECT_URL", ""),
			XenditWebhookVerificationToken: getEnv("XENDIT_WEBHOOK_VERIFICATION_TOKEN", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(getEnv("KAFKA_BROKERS", "")),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "order-notifications"),
			ConsumerGroup:     getEnv("KAFKA_CONSUMER_GROUP", "notify-worker"),
		},
		Worker: WorkerConfig{
			MetricsPort: getEnv("WORKER_METRICS_PORT", "9101"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
