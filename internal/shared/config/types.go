package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	Mode           string   `mapstructure:"mode" yaml:"mode"`
	BaseURL        string   `mapstructure:"base_url" yaml:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone" yaml:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"-"`
	Database        string `mapstructure:"database" yaml:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" yaml:"-"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" yaml:"access_exp_minutes"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password" yaml:"password"`
	JWT      JWTConfig      `mapstructure:"jwt" yaml:"jwt"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password" yaml:"-"`
	FromAddress  string `mapstructure:"from_address" yaml:"from_address"`
	FromName     string `mapstructure:"from_name" yaml:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"-"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig selects the object storage driver for ticket attachments.
type StorageConfig struct {
	Driver         string        `mapstructure:"driver" yaml:"driver"`
	Bucket         string        `mapstructure:"bucket" yaml:"bucket"`
	Region         string        `mapstructure:"region" yaml:"region"`
	Endpoint       string        `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey      string        `mapstructure:"access_key" yaml:"-"`
	SecretKey      string        `mapstructure:"secret_key" yaml:"-"`
	ForcePathStyle bool          `mapstructure:"force_path_style" yaml:"force_path_style"`
	BaseDir        string        `mapstructure:"base_dir" yaml:"base_dir"`
	PublicBaseURL  string        `mapstructure:"public_base_url" yaml:"public_base_url"`
	SignedURLTTL   time.Duration `mapstructure:"signed_url_ttl" yaml:"signed_url_ttl"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// EventsConfig controls the outbox relay and the bus it publishes to.
type EventsConfig struct {
	Driver        string        `mapstructure:"driver" yaml:"driver"`
	RelayInterval time.Duration `mapstructure:"relay_interval" yaml:"relay_interval"`
	BatchSize     int           `mapstructure:"batch_size" yaml:"batch_size"`
	MaxAttempts   int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	RetentionDays int           `mapstructure:"retention_days" yaml:"retention_days"`
	HandleTimeout time.Duration `mapstructure:"handle_timeout" yaml:"handle_timeout"`
	AMQPURL       string        `mapstructure:"amqp_url" yaml:"-"`
	AMQPQueue     string        `mapstructure:"amqp_queue" yaml:"amqp_queue"`
	RedisChannel  string        `mapstructure:"redis_channel" yaml:"redis_channel"`
}

// SupportConfig holds the support desk persona and ticket workflow settings.
type SupportConfig struct {
	DefaultAuthorName  string `mapstructure:"default_author_name" yaml:"default_author_name"`
	DefaultAuthorEmail string `mapstructure:"default_author_email" yaml:"default_author_email"`
	InboxAddress       string `mapstructure:"inbox_address" yaml:"inbox_address"`
	TransitionPolicy   string `mapstructure:"transition_policy" yaml:"transition_policy"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour" yaml:"requests_per_hour"`
}
