package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Переменные окружения с секретами. Имеют приоритет над файлом
const (
	envDBPassword          = "DB_PASSWORD"
	envStripeSecretKey     = "STRIPE_SECRET_KEY"
	envStripeWebhookSecret = "STRIPE_WEBHOOK_SECRET"
	envAdminToken          = "ADMIN_TOKEN"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Payments  PaymentsConfig  `toml:"payments"`
	Admin     AdminConfig     `toml:"admin"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	TimeZone       string `toml:"time_zone"`
	MaxRangeDays   int    `toml:"max_range_days"`   // 0 - без ограничения
	MaxAdvanceDays int    `toml:"max_advance_days"` // 0 - без ограничения
	AssignAttempts int    `toml:"assign_attempts"`
	Currency       string `toml:"currency"`
}

// PaymentsConfig настройки платежного провайдера
type PaymentsConfig struct {
	Enabled             bool   `toml:"enabled"`
	SecretKey           string `toml:"secret_key"`
	WebhookSecret       string `toml:"webhook_secret"`
	WebhookToleranceSec int    `toml:"webhook_tolerance"`
	SuccessURL          string `toml:"success_url"`
	CancelURL           string `toml:"cancel_url"`
	SessionTTLMinutes   int    `toml:"session_ttl_minutes"`

	BreakerMaxRequests uint32 `toml:"breaker_max_requests"`
	BreakerIntervalSec int    `toml:"breaker_interval"`
	BreakerTimeoutSec  int    `toml:"breaker_timeout"`
	BreakerMaxFailures uint32 `toml:"breaker_max_failures"`
}

// AdminConfig доступ к back-office
type AdminConfig struct {
	Token string `toml:"token"`
}

// RateLimitConfig ограничение публичного POST /bookings
type RateLimitConfig struct {
	Enabled        bool `toml:"enabled"`
	PerMinute      int  `toml:"per_minute"`
	Burst          int  `toml:"burst"`
	IdleTTLMinutes int  `toml:"idle_ttl_minutes"`
	TrustProxy     bool `toml:"trust_proxy"`
}

// Load читает TOML файл, подхватывает .env (если есть) и переменные окружения с секретами
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "bike-repair-service"},
		Booking: BookingConfig{
			TimeZone:       domain.DefaultTimeZone,
			MaxRangeDays:   domain.DefaultMaxRangeDays,
			MaxAdvanceDays: domain.DefaultMaxAdvanceDays,
			AssignAttempts: domain.DefaultAssignAttempts,
			Currency:       domain.DefaultCurrency,
		},
		Payments: PaymentsConfig{
			WebhookToleranceSec: 300,
			SessionTTLMinutes:   30,
			BreakerMaxRequests:  1,
			BreakerIntervalSec:  60,
			BreakerTimeoutSec:   30,
			BreakerMaxFailures:  5,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			PerMinute:      10,
			Burst:          5,
			IdleTTLMinutes: 10,
		},
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(envDBPassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(envStripeSecretKey); ok {
		c.Payments.SecretKey = v
	}
	if v, ok := os.LookupEnv(envStripeWebhookSecret); ok {
		c.Payments.WebhookSecret = v
	}
	if v, ok := os.LookupEnv(envAdminToken); ok {
		c.Admin.Token = v
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database.host, database.dbname and database.user are required")
	}
	if c.Database.MaxOpenConns < 1 || c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		problems = append(problems, "database pool sizes are inconsistent")
	}
	if _, err := time.LoadLocation(c.Booking.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("booking.time_zone %q: %v", c.Booking.TimeZone, err))
	}
	if c.Booking.MaxRangeDays < 0 || c.Booking.MaxAdvanceDays < 0 {
		problems = append(problems, "booking day limits must not be negative")
	}
	if c.Booking.AssignAttempts < 1 {
		problems = append(problems, "booking.assign_attempts must be at least 1")
	}
	if c.Payments.Enabled {
		if c.Payments.SecretKey == "" || c.Payments.WebhookSecret == "" {
			problems = append(problems, "payments.secret_key and payments.webhook_secret are required when payments are enabled")
		}
		for name, raw := range map[string]string{"success_url": c.Payments.SuccessURL, "cancel_url": c.Payments.CancelURL} {
			if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
				problems = append(problems, fmt.Sprintf("payments.%s must be an absolute URL", name))
			}
		}
	}
	if c.Admin.Token == "" {
		problems = append(problems, "admin.token is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.PerMinute < 1 {
		problems = append(problems, "ratelimit.per_minute must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Location часовой пояс мастерской. Validate гарантирует, что он загружается
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
