package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config is the application-wide configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Mail      MailConfig      `mapstructure:"mail"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings. Redis backs the token deny-list and the rate limiter.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig registration, login and token settings.
type AuthConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	TokenTTL            time.Duration `mapstructure:"token_ttl"`
	AdminEmails         []string      `mapstructure:"admin_emails"`
	EmailDomain         string        `mapstructure:"email_domain"`
	MinPasswordLength   int           `mapstructure:"min_password_length"`
	BcryptCost          int           `mapstructure:"bcrypt_cost"`
	RequireVerification bool          `mapstructure:"require_verification"`
	VerificationTTL     time.Duration `mapstructure:"verification_ttl"`
}

// StorageConfig binary storage for uploaded course files.
type StorageConfig struct {
	Driver         string        `mapstructure:"driver"` // "local" | "minio"
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	OrphanGrace    time.Duration `mapstructure:"orphan_grace"`
	Local          LocalStorage  `mapstructure:"local"`
	MinIO          MinIOStorage  `mapstructure:"minio"`
}

// LocalStorage stores binaries under a directory on disk.
type LocalStorage struct {
	Dir string `mapstructure:"dir"`
}

// MinIOStorage stores binaries in an S3-compatible bucket.
type MinIOStorage struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MailConfig SMTP settings for outbound notifications.
type MailConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	SMTPHost    string        `mapstructure:"smtp_host"`
	SMTPPort    int           `mapstructure:"smtp_port"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	From        string        `mapstructure:"from"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// RateLimitConfig sliding-window limit applied to the public auth endpoints.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration.
// Precedence: environment > config file > defaults. A .env file, when
// present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "edu_classrepo")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Dhaka")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.admin_emails", []string{})
	v.SetDefault("auth.email_domain", "@eastdelta.edu.bd")
	v.SetDefault("auth.min_password_length", 6)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.require_verification", false)
	v.SetDefault("auth.verification_ttl", "48h")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.max_upload_bytes", 10<<20)
	v.SetDefault("storage.orphan_grace", "1h")
	v.SetDefault("storage.local.dir", "uploads")
	v.SetDefault("storage.minio.bucket", "edu-classrepo")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.send_timeout", "15s")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 20)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("CLASSREPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// comma-separated env override: CLASSREPO_AUTH_ADMIN_EMAILS="a@x,b@y"
	if len(cfg.Auth.AdminEmails) == 1 && strings.Contains(cfg.Auth.AdminEmails[0], ",") {
		cfg.Auth.AdminEmails = strings.Split(cfg.Auth.AdminEmails[0], ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret must be set")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: auth.token_ttl must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.DefaultCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: auth.bcrypt_cost must be between %d and %d", bcrypt.DefaultCost, bcrypt.MaxCost)
	}
	if c.Auth.MinPasswordLength <= 0 {
		return fmt.Errorf("config: auth.min_password_length must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: storage.max_upload_bytes must be positive")
	}
	switch c.Storage.Driver {
	case "local":
		if c.Storage.Local.Dir == "" {
			return fmt.Errorf("config: storage.local.dir must be set")
		}
	case "minio":
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("config: storage.minio.endpoint must be set")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Mail.Enabled && (c.Mail.SMTPHost == "" || c.Mail.From == "") {
		return fmt.Errorf("config: mail.smtp_host and mail.from are required when mail is enabled")
	}
	return nil
}
