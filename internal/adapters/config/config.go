package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"aurum/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Provider      ProviderConfig
	Sync          SyncConfig
	Scheduler     SchedulerConfig
	Logos         LogoConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"aurum"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS"`
}

// ProviderConfig configures the external market-data provider
type ProviderConfig struct {
	BaseURL           string        `envconfig:"PROVIDER_BASE_URL" default:"https://brapi.dev/api"`
	Token             string        `envconfig:"PROVIDER_TOKEN"`
	Timeout           time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
	RequestsPerMinute int           `envconfig:"PROVIDER_REQUESTS_PER_MINUTE" default:"60"`
}

// SyncConfig tunes the bulk asset-refresh pipeline
type SyncConfig struct {
	ItemDelay  time.Duration `envconfig:"SYNC_ITEM_DELAY" default:"200ms"`
	MaxTickers int           `envconfig:"SYNC_MAX_TICKERS" default:"100"`
	QuoteTTL   time.Duration `envconfig:"SYNC_QUOTE_TTL" default:"1m"`
}

// SchedulerConfig configures the recurring analysis triggers.
// The cron expressions fire in Timezone; defaults follow B3 trading hours.
type SchedulerConfig struct {
	Timezone    string `envconfig:"SCHEDULER_TIMEZONE" default:"America/Sao_Paulo"`
	HourlySpec  string `envconfig:"SCHEDULER_HOURLY_SPEC" default:"0 * * * *"`
	DailySpec   string `envconfig:"SCHEDULER_DAILY_SPEC" default:"0 9 * * 1-5"`
	WeeklySpec  string `envconfig:"SCHEDULER_WEEKLY_SPEC" default:"0 10 * * 1"`
	MonthlySpec string `envconfig:"SCHEDULER_MONTHLY_SPEC" default:"0 11 1 * *"`

	LeaseTTL time.Duration `envconfig:"SCHEDULER_LEASE_TTL" default:"5m"`
}

type LogoConfig struct {
	Dir string `envconfig:"LOGO_DIR" default:"./data/logos"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables.
// It first tries to load a .env file (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
