package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret   string
	JWTTokenTTL time.Duration
	BackendURL  string

	StripeSecretKey     string
	StripeWebhookSecret string
	PaymentCurrency     string
	ProcessorTimeout    time.Duration
	CommissionBps       int64

	DefaultJobAmountCents int64
	OrderNumberStart      int64

	MongoURI         string
	MongoDB          string
	RabbitMQURL      string
	RabbitMQExchange string

	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	RequireDriverImageVerification bool

	ReconcileSchedule string
	ReconcileMinAge   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_TOKEN_TTL", "720h")
	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PROCESSOR_TIMEOUT", "15s")
	v.SetDefault("COMMISSION_BPS", 0)
	v.SetDefault("DEFAULT_JOB_AMOUNT_CENTS", 4000)
	v.SetDefault("ORDER_NUMBER_START", 1000)
	v.SetDefault("MONGO_DB", "marketplace")
	v.SetDefault("RABBITMQ_EXCHANGE", "marketplace.events")
	v.SetDefault("REQUIRE_DRIVER_IMAGE_VERIFICATION", false)
	v.SetDefault("RECONCILE_SCHEDULE", "@every 1m")
	v.SetDefault("RECONCILE_MIN_AGE", "2m")
}

// LoadConfig reads .env when present and then the process environment.
// Environment variables win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort:   v.GetString("HTTP_PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTTokenTTL: v.GetDuration("JWT_TOKEN_TTL"),
		BackendURL:  v.GetString("BACKEND_URL"),

		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		PaymentCurrency:     v.GetString("PAYMENT_CURRENCY"),
		ProcessorTimeout:    v.GetDuration("PROCESSOR_TIMEOUT"),
		CommissionBps:       v.GetInt64("COMMISSION_BPS"),

		DefaultJobAmountCents: v.GetInt64("DEFAULT_JOB_AMOUNT_CENTS"),
		OrderNumberStart:      v.GetInt64("ORDER_NUMBER_START"),

		MongoURI:         v.GetString("MONGO_URI"),
		MongoDB:          v.GetString("MONGO_DB"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),

		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Region:          v.GetString("S3_REGION"),
		S3AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),

		RequireDriverImageVerification: v.GetBool("REQUIRE_DRIVER_IMAGE_VERIFICATION"),

		ReconcileSchedule: v.GetString("RECONCILE_SCHEDULE"),
		ReconcileMinAge:   v.GetDuration("RECONCILE_MIN_AGE"),
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var problems []error
	if c.DBUser == "" || c.DBName == "" {
		problems = append(problems, errors.New("DB_USER and DB_NAME are required"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if c.StripeSecretKey == "" {
		problems = append(problems, errors.New("STRIPE_SECRET_KEY is required"))
	}
	if c.DefaultJobAmountCents <= 0 {
		problems = append(problems, errors.New("DEFAULT_JOB_AMOUNT_CENTS must be positive"))
	}
	if c.OrderNumberStart <= 0 {
		problems = append(problems, errors.New("ORDER_NUMBER_START must be positive"))
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
