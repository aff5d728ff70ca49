package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Sessions SessionsConfig `yaml:"sessions"`
	Hall     HallConfig     `yaml:"hall"`
	Email    EmailConfig    `yaml:"email"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig with an empty Addr disables the roster cache and the distributed booking lock.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ChangesTopic       string   `yaml:"changes_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
	LiveGroupID        string   `yaml:"live_group_id"`
}

type BookingConfig struct {
	LockTTLSeconds         int `yaml:"lock_ttl_seconds"`
	DoctorsCacheTTLSeconds int `yaml:"doctors_cache_ttl_seconds"`
}

func (b BookingConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLSeconds) * time.Second
}

func (b BookingConfig) DoctorsCacheTTL() time.Duration {
	return time.Duration(b.DoctorsCacheTTLSeconds) * time.Second
}

type ScopeConfig struct {
	Password       string `yaml:"password"`
	TimeoutMinutes int    `yaml:"timeout_minutes"`
}

type SessionsConfig struct {
	Admin       ScopeConfig `yaml:"admin"`
	LiveDisplay ScopeConfig `yaml:"live_display"`
	Doctors     ScopeConfig `yaml:"doctors"`
	Inquiries   ScopeConfig `yaml:"inquiries"`
	Financials  ScopeConfig `yaml:"financials"`
}

type HallConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	WaitingLimit        int `yaml:"waiting_limit"`
	AbsentLimit         int `yaml:"absent_limit"`
}

func (h HallConfig) PollInterval() time.Duration {
	return time.Duration(h.PollIntervalSeconds) * time.Second
}

// EmailConfig with an empty APIKey makes the worker log confirmations instead of sending them.
type EmailConfig struct {
	APIKey      string `yaml:"api_key"`
	FromAddress string `yaml:"from_address"`
	FromName    string `yaml:"from_name"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StoragePostgres
	}
	if c.Booking.LockTTLSeconds <= 0 {
		c.Booking.LockTTLSeconds = 5
	}
	if c.Booking.DoctorsCacheTTLSeconds <= 0 {
		c.Booking.DoctorsCacheTTLSeconds = 60
	}
	for _, sc := range []*ScopeConfig{&c.Sessions.Admin, &c.Sessions.Doctors, &c.Sessions.Inquiries, &c.Sessions.Financials} {
		if sc.TimeoutMinutes <= 0 {
			sc.TimeoutMinutes = 30
		}
	}
	if c.Sessions.LiveDisplay.TimeoutMinutes <= 0 {
		c.Sessions.LiveDisplay.TimeoutMinutes = 60
	}
	if c.Hall.PollIntervalSeconds <= 0 {
		c.Hall.PollIntervalSeconds = 4
	}
	if c.Hall.WaitingLimit <= 0 {
		c.Hall.WaitingLimit = 4
	}
	if c.Hall.AbsentLimit <= 0 {
		c.Hall.AbsentLimit = 3
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "OPD Desk"
	}
}
