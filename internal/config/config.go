package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	PersonService PersonServiceConfig `toml:"person_service"`
	Kafka         KafkaConfig         `toml:"kafka"`
	Redis         RedisConfig         `toml:"redis"`
	Calendar      CalendarConfig      `toml:"calendar"`
	Booking       BookingConfig       `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int   `toml:"http_port"`
	ReadTimeout     int   `toml:"read_timeout"`
	WriteTimeout    int   `toml:"write_timeout"`
	IdleTimeout     int   `toml:"idle_timeout"`
	ShutdownTimeout int   `toml:"shutdown_timeout"`
	MaxBodyBytes    int64 `toml:"max_body_bytes"`
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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// PersonServiceConfig настройки клиента сервиса данных о людях
type PersonServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// KafkaConfig настройки публикации доменных событий
type KafkaConfig struct {
	Enabled      bool   `toml:"enabled"`
	Brokers      string `toml:"brokers"` // через запятую
	WriteTimeout int    `toml:"write_timeout"`
}

// RedisConfig настройки распределенной блокировки койко-мест
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	LockPrefix string `toml:"lock_prefix"`
	LockTTLMs  int    `toml:"lock_ttl_ms"`
	LockWaitMs int    `toml:"lock_wait_ms"`
}

// CalendarConfig настройки календаря рабочих дней
type CalendarConfig struct {
	// Holidays праздники YYYY-MM-DD в дополнение к таблице holidays
	Holidays []string `toml:"holidays"`

	// ReloadSchedule cron выражение перезагрузки; пусто - только при старте
	ReloadSchedule string `toml:"reload_schedule"`
}

// BookingConfig бизнес-настройки бронирований
type BookingConfig struct {
	DefaultTurnaroundWorkingDays int `toml:"default_turnaround_working_days"`
	TurnaroundLookbackDays       int `toml:"turnaround_lookback_days"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse разбирает TOML, применяет значения по умолчанию и валидирует результат
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "accommodation_service",
		},
		PersonService: PersonServiceConfig{
			Timeout: 5,
		},
		Kafka: KafkaConfig{
			WriteTimeout: 5,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			LockPrefix: "accommodation:lock",
			LockTTLMs:  10000,
			LockWaitMs: 2000,
		},
		Booking: BookingConfig{
			DefaultTurnaroundWorkingDays: domain.DefaultTurnaroundWorkingDays,
			TurnaroundLookbackDays:       domain.DefaultTurnaroundLookbackDays,
		},
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.PersonService.URL == "" {
		problems = append(problems, "person_service.url is required")
	}
	if c.Kafka.Enabled && c.Kafka.Brokers == "" {
		problems = append(problems, "kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}

	days := c.Booking.DefaultTurnaroundWorkingDays
	if days < domain.MinTurnaroundWorkingDays || days > domain.MaxTurnaroundWorkingDays {
		problems = append(problems, fmt.Sprintf("booking.default_turnaround_working_days must be in %d..%d",
			domain.MinTurnaroundWorkingDays, domain.MaxTurnaroundWorkingDays))
	}
	if c.Booking.TurnaroundLookbackDays < 0 {
		problems = append(problems, "booking.turnaround_lookback_days must not be negative")
	}

	for _, h := range c.Calendar.Holidays {
		if _, err := domain.ParseDate(h); err != nil {
			problems = append(problems, fmt.Sprintf("calendar.holidays: invalid date %q", h))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
