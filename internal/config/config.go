package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Tracing  TracingConfig  `toml:"tracing"`
	Solana   SolanaConfig   `toml:"solana"`
	Site     SiteConfig     `toml:"site"`
	Email    EmailConfig    `toml:"email"`
	Broker   BrokerConfig   `toml:"broker"`
	Icons    IconsConfig    `toml:"icons"`
	Display  DisplayConfig  `toml:"display"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" ignored:"true"`
	WriteTimeout    int `toml:"write_timeout" ignored:"true"`
	IdleTimeout     int `toml:"idle_timeout" ignored:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" ignored:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" ignored:"true"`
	Port            int    `toml:"port" ignored:"true"`
	User            string `toml:"user" ignored:"true"`
	Password        string `toml:"password" envconfig:"DATABASE_PASSWORD"`
	DBName          string `toml:"dbname" ignored:"true"`
	SSLMode         string `toml:"sslmode" ignored:"true"`
	URL             string `toml:"url" envconfig:"DATABASE_DSN"` // если задан, перекрывает поля выше
	MaxOpenConns    int    `toml:"max_open_conns" ignored:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" ignored:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" ignored:"true"`
}

// DSN строка подключения к postgres
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" envconfig:"LOG_FILE"`
	Level string `toml:"level" envconfig:"LOG_LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" ignored:"true"`
	Path        string `toml:"path" ignored:"true"`
	ServiceName string `toml:"service_name" ignored:"true"`
}

type TracingConfig struct {
	Enabled     bool   `toml:"enabled" envconfig:"TRACING_ENABLED"`
	Endpoint    string `toml:"endpoint" envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool   `toml:"insecure" ignored:"true"`
	Environment string `toml:"environment" envconfig:"ENV"`
}

type SolanaConfig struct {
	Network string `toml:"network" envconfig:"SOLANA_NETWORK"` // devnet | testnet | mainnet-beta
	RPCURL  string `toml:"rpc_url" envconfig:"SOLANA_RPC"`
	Timeout int    `toml:"timeout_seconds" ignored:"true"`
}

// SiteConfig внешний адрес сервиса
// Базовый URL берется по цепочке: PublicURL -> https://PlatformHost -> origin входящего запроса
type SiteConfig struct {
	PublicURL    string `toml:"public_url" envconfig:"PUBLIC_APP_URL"`
	PlatformHost string `toml:"platform_host" envconfig:"PLATFORM_HOST"`
}

// BaseURL возвращает внешний адрес из конфигурации или requestOrigin
func (s SiteConfig) BaseURL(requestOrigin string) string {
	if u := strings.TrimRight(strings.TrimSpace(s.PublicURL), "/"); u != "" {
		return u
	}
	if h := strings.TrimSpace(s.PlatformHost); h != "" {
		return "https://" + strings.TrimRight(h, "/")
	}
	return strings.TrimRight(requestOrigin, "/")
}

type EmailConfig struct {
	APIURL    string `toml:"api_url" ignored:"true"`
	APIKey    string `toml:"api_key" envconfig:"RESEND_API_KEY"`
	From      string `toml:"from" envconfig:"RESEND_FROM"`
	TestEmail string `toml:"test_email" envconfig:"RESEND_TEST_EMAIL"` // если задан, письма уходят только на этот адрес
	Timeout   int    `toml:"timeout_seconds" ignored:"true"`
}

// Enabled возвращает true если отправка писем настроена
func (e EmailConfig) Enabled() bool {
	return strings.TrimSpace(e.APIKey) != ""
}

type BrokerConfig struct {
	URL      string `toml:"url" envconfig:"RABBIT_URL"`
	Exchange string `toml:"exchange" ignored:"true"`
}

type IconsConfig struct {
	FallbackURL string `toml:"fallback_url" ignored:"true"`
	UploadsDir  string `toml:"uploads_dir" ignored:"true"`
	UserAgent   string `toml:"user_agent" ignored:"true"`
	Timeout     int    `toml:"timeout_seconds" ignored:"true"`
}

type DisplayConfig struct {
	Timezone string `toml:"timezone" envconfig:"DISPLAY_TZ"`
}

// Location возвращает часовой пояс для отображения времени слотов
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(d.Timezone)
}

// Load читает TOML файл, накладывает переменные окружения и проставляет значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			DBName:          "blink_booking",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "blink_booking",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			Environment: "dev",
		},
		Solana: SolanaConfig{
			Network: "devnet",
			RPCURL:  "https://api.devnet.solana.com",
			Timeout: 10,
		},
		Email: EmailConfig{
			APIURL:  "https://api.resend.com",
			From:    "Interval <onboarding@resend.dev>",
			Timeout: 10,
		},
		Broker: BrokerConfig{Exchange: "booking.exchange"},
		Icons: IconsConfig{
			FallbackURL: "https://solana.com/favicon.ico",
			UploadsDir:  "public",
			UserAgent:   "IntervalBlink/1",
			Timeout:     5,
		},
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Solana.RPCURL) == "" {
		return fmt.Errorf("%w: solana.rpc_url is required", ErrInvalidConfig)
	}
	if c.Solana.Timeout <= 0 {
		return fmt.Errorf("%w: solana.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Icons.FallbackURL) == "" {
		return fmt.Errorf("%w: icons.fallback_url is required", ErrInvalidConfig)
	}
	if _, err := c.Display.Location(); err != nil {
		return fmt.Errorf("%w: display.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

// applyEnv накладывает переменные окружения поверх файла
// Незаданные переменные оставляют значения из файла без изменений
func applyEnv(cfg *Config) error {
	sections := []interface{}{
		&cfg.Server,
		&cfg.Database,
		&cfg.Logs,
		&cfg.Tracing,
		&cfg.Solana,
		&cfg.Site,
		&cfg.Email,
		&cfg.Broker,
		&cfg.Display,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("%w: env: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
