package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port        string `mapstructure:"PORT"`
	ServiceName string `mapstructure:"SERVICE_NAME"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	GRPCPort    string `mapstructure:"GRPC_PORT"`

	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBDSN          string `mapstructure:"DB_DSN"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	SeedSampleData bool   `mapstructure:"SEED_SAMPLE_DATA"`

	UploadDir          string        `mapstructure:"UPLOAD_DIR"`
	UploadURLPrefix    string        `mapstructure:"UPLOAD_URL_PREFIX"`
	UploadMaxFileBytes int64         `mapstructure:"UPLOAD_MAX_FILE_BYTES"`
	BodyLimitBytes     int           `mapstructure:"BODY_LIMIT_BYTES"`
	StorageBackend     string        `mapstructure:"STORAGE_BACKEND"`
	SweepGrace         time.Duration `mapstructure:"SWEEP_GRACE"`
	CORSAllowOrigins   string        `mapstructure:"CORS_ALLOW_ORIGINS"`

	AWSEndpoint      string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket        string `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion string `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey     string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey     string `mapstructure:"AWS_SECRET_KEY"`

	Notifier   string `mapstructure:"NOTIFIER"`
	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   int    `mapstructure:"SMTP_PORT"`
	EmailUser  string `mapstructure:"EMAIL_USER"`
	EmailPass  string `mapstructure:"EMAIL_PASS"`
	StoreEmail string `mapstructure:"STORE_EMAIL"`
	MailFrom   string `mapstructure:"MAIL_FROM"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	RedisNotifyKey string `mapstructure:"REDIS_NOTIFY_KEY"`
}

// Notifiers returns the configured notifier kinds, lower-cased and trimmed.
func (c *AppConfig) Notifiers() []string {
	var kinds []string
	for _, kind := range strings.Split(c.Notifier, ",") {
		kind = strings.ToLower(strings.TrimSpace(kind))
		if kind != "" {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

var keys = []string{
	"PORT",
	"SERVICE_NAME",
	"LOG_LEVEL",
	"GRPC_PORT",
	"DB_DRIVER",
	"DB_DSN",
	"DB_MAX_OPEN_CONNS",
	"SEED_SAMPLE_DATA",
	"UPLOAD_DIR",
	"UPLOAD_URL_PREFIX",
	"UPLOAD_MAX_FILE_BYTES",
	"BODY_LIMIT_BYTES",
	"STORAGE_BACKEND",
	"SWEEP_GRACE",
	"CORS_ALLOW_ORIGINS",
	"AWS_ENDPOINT",
	"AWS_BUCKET",
	"AWS_DEFAULT_REGION",
	"AWS_ACCESS_KEY",
	"AWS_SECRET_KEY",
	"NOTIFIER",
	"SMTP_HOST",
	"SMTP_PORT",
	"EMAIL_USER",
	"EMAIL_PASS",
	"STORE_EMAIL",
	"MAIL_FROM",
	"RABBITMQ_URL",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"REDIS_NOTIFY_KEY",
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

func bindEnvVariables() {
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

func setDefaults() {
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("SERVICE_NAME", "catalog")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "items.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 1)
	viper.SetDefault("SEED_SAMPLE_DATA", true)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	viper.SetDefault("UPLOAD_MAX_FILE_BYTES", 5*1024*1024)
	viper.SetDefault("BODY_LIMIT_BYTES", 32*1024*1024)
	viper.SetDefault("STORAGE_BACKEND", "disk")
	viper.SetDefault("SWEEP_GRACE", time.Hour)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
	viper.SetDefault("NOTIFIER", "log")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("STORE_EMAIL", "store@example.com")
	viper.SetDefault("MAIL_FROM", "noreply@itemstore.com")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_NOTIFY_KEY", "catalog:enquiry-mail")
}
