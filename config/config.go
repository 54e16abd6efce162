package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/vitanips/platform-api/internal/email"
	"github.com/vitanips/platform-api/internal/middleware"
	"github.com/vitanips/platform-api/internal/repository/postgres"
	"github.com/vitanips/platform-api/pkg/auth"
	"github.com/vitanips/platform-api/pkg/messaging/redis"
	"github.com/vitanips/platform-api/pkg/worker"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes" envconfig:"SERVER_MAX_HEADER_BYTES"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret" envconfig:"JWT_SECRET"`
	RefreshSecret string        `mapstructure:"refresh_secret" envconfig:"JWT_REFRESH_SECRET"`
	Expiry        time.Duration `mapstructure:"expiry" envconfig:"JWT_EXPIRY"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry" envconfig:"JWT_REFRESH_EXPIRY"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"REDIS_URL"`
	MaxRetries   int           `mapstructure:"max_retries" envconfig:"REDIS_MAX_RETRIES"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" envconfig:"REDIS_RETRY_BACKOFF"`
	PoolSize     int           `mapstructure:"pool_size" envconfig:"REDIS_POOL_SIZE"`
	MinIdleConns int           `mapstructure:"min_idle_conns" envconfig:"REDIS_MIN_IDLE_CONNS"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type OutboxConfig struct {
	BatchSize    int           `mapstructure:"batch_size" envconfig:"OUTBOX_BATCH_SIZE"`
	PollInterval time.Duration `mapstructure:"poll_interval" envconfig:"OUTBOX_POLL_INTERVAL"`
	Channel      string        `mapstructure:"channel" envconfig:"OUTBOX_CHANNEL"`
}

type RateLimitConfig struct {
	RPS   float64       `mapstructure:"rps" envconfig:"RATE_LIMIT_RPS"`
	Burst int           `mapstructure:"burst" envconfig:"RATE_LIMIT_BURST"`
	TTL   time.Duration `mapstructure:"ttl" envconfig:"RATE_LIMIT_TTL"`
}

type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins" envconfig:"CORS_ALLOW_ORIGINS"`
	AllowMethods     []string `mapstructure:"allow_methods" envconfig:"CORS_ALLOW_METHODS"`
	AllowHeaders     []string `mapstructure:"allow_headers" envconfig:"CORS_ALLOW_HEADERS"`
	ExposeHeaders    []string `mapstructure:"expose_headers" envconfig:"CORS_EXPOSE_HEADERS"`
	AllowCredentials bool     `mapstructure:"allow_credentials" envconfig:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"max_age" envconfig:"CORS_MAX_AGE"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Email     EmailConfig     `mapstructure:"email"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// LoadConfig reads config.yml from the usual locations, then applies
// environment variable overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.MaxHeaderBytes == 0 {
		c.Server.MaxHeaderBytes = 1 << 20
	}
	if c.JWT.Expiry == 0 {
		c.JWT.Expiry = 24 * time.Hour
	}
	if c.JWT.RefreshExpiry == 0 {
		c.JWT.RefreshExpiry = 7 * 24 * time.Hour
	}
	if c.RateLimit.RPS == 0 {
		def := middleware.DefaultRateLimiterConfig()
		c.RateLimit.RPS = def.RPS
		c.RateLimit.Burst = def.Burst
		c.RateLimit.TTL = def.TTL
	}
	if len(c.CORS.AllowOrigins) == 0 {
		def := middleware.DefaultCORSConfig()
		c.CORS.AllowOrigins = def.AllowOrigins
		c.CORS.AllowMethods = def.AllowMethods
		c.CORS.AllowHeaders = def.AllowHeaders
		c.CORS.ExposeHeaders = def.ExposeHeaders
		c.CORS.AllowCredentials = def.AllowCredentials
		c.CORS.MaxAge = def.MaxAge
	}
}

func (c *DatabaseConfig) ToDatabaseConfig() postgres.DatabaseConfig {
	return postgres.DatabaseConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Name:     c.Name,
		SSLMode:  c.SSLMode,
	}
}

func (c *JWTConfig) ToJWTConfig() auth.Config {
	return auth.Config{
		Secret:        c.Secret,
		RefreshSecret: c.RefreshSecret,
		Expiry:        c.Expiry,
		RefreshExpiry: c.RefreshExpiry,
	}
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.URL,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}

func (c *EmailConfig) ToEmailConfig() email.Config {
	return email.Config{
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	}
}

func (c *OutboxConfig) ToWorkerConfig() worker.OutboxProcessorConfig {
	return worker.OutboxProcessorConfig{
		BatchSize:    c.BatchSize,
		PollInterval: c.PollInterval,
		Channel:      c.Channel,
	}
}

func (c *RateLimitConfig) ToLimiterConfig() middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		RPS:   c.RPS,
		Burst: c.Burst,
		TTL:   c.TTL,
	}
}

func (c *CORSConfig) ToCORSConfig() middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins:     c.AllowOrigins,
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
}
