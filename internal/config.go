package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Paystack      PaystackConfig      `mapstructure:"paystack"`
	Recon         ReconConfig         `mapstructure:"reconciliation"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// SecurityConfig guards the admin API. Scheduled invokers sign short-lived
// HS256 tokens with the shared secret; there is no interactive login here.
type SecurityConfig struct {
	AdminTokenSecret string        `mapstructure:"admin_token_secret"`
	TokenDuration    time.Duration `mapstructure:"token_duration"`
}

type PaystackConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	SecretKey      string        `mapstructure:"secret_key"`
	PerPage        int           `mapstructure:"per_page"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

type ReconConfig struct {
	RunTimeout             time.Duration `mapstructure:"run_timeout"`
	Currency               string        `mapstructure:"currency"`
	ContinueOnStageFailure bool          `mapstructure:"continue_on_stage_failure"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds a Config from environment variables for container
// deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			AdminTokenSecret: getEnv("ADMIN_TOKEN_SECRET", ""),
			TokenDuration:    getEnvAsDuration("ADMIN_TOKEN_DURATION", 15*time.Minute),
		},
		Paystack: PaystackConfig{
			BaseURL:        getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			SecretKey:      getEnv("PAYSTACK_SECRET_KEY", ""),
			PerPage:        getEnvAsInt("PAYSTACK_PER_PAGE", 50),
			RequestTimeout: getEnvAsDuration("PAYSTACK_REQUEST_TIMEOUT", 30*time.Second),
			MaxRetries:     getEnvAsInt("PAYSTACK_MAX_RETRIES", 3),
		},
		Recon: ReconConfig{
			RunTimeout:             getEnvAsDuration("RECON_RUN_TIMEOUT", 10*time.Minute),
			Currency:               getEnv("RECON_CURRENCY", "GHS"),
			ContinueOnStageFailure: getEnvAsBool("RECON_CONTINUE_ON_STAGE_FAILURE", true),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Paystack.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("paystack config: %v", err))
	}

	if err := c.Recon.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("reconciliation config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AdminTokenSecret) < 32 {
		return errors.New("admin token secret must be at least 32 characters")
	}
	return nil
}

func (c *PaystackConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret_key is required")
	}
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.PerPage < 0 {
		return errors.New("per_page cannot be negative")
	}
	return nil
}

func (c *ReconConfig) Validate() error {
	if c.RunTimeout <= 0 {
		return errors.New("run_timeout must be positive")
	}
	if c.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}
