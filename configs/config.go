package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values come from an optional
// YAML file (CUSTOMERS_CONFIG) and are then overridden by environment variables.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
	AfricaTalking AfricaTalkingConfig `yaml:"africastalking"`
	Email         EmailConfig         `yaml:"email"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"` // postgres|mysql|sqlite
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	TimeZone    string `yaml:"timezone"`
	Path        string `yaml:"path"` // sqlite only
	AutoMigrate bool   `yaml:"auto_migrate"`
	LogLevel    string `yaml:"log_level"`
}

type AuthConfig struct {
	BcryptCost int    `yaml:"bcrypt_cost"`
	Realm      string `yaml:"realm"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

type AfricaTalkingConfig struct {
	Username string `yaml:"username"`
	APIKey   string `yaml:"api_key"`
	SMSURL   string `yaml:"sms_url"`
	SenderID string `yaml:"sender_id"`
}

type EmailConfig struct {
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`
	AWSRegion          string `yaml:"aws_region"`
	SenderEmail        string `yaml:"sender_email"`
}

// Enabled reports whether SMS notifications can be sent.
func (c AfricaTalkingConfig) Enabled() bool {
	return c.Username != "" && c.APIKey != ""
}

// Enabled reports whether email notifications can be sent.
func (c EmailConfig) Enabled() bool {
	return c.SenderEmail != ""
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      "postgres",
			Host:        "localhost",
			Port:        "5432",
			User:        "test",
			Password:    "test",
			Name:        "test",
			SSLMode:     "disable",
			TimeZone:    "UTC",
			Path:        "customers.db",
			AutoMigrate: true,
			LogLevel:    "warn",
		},
		Auth: AuthConfig{
			BcryptCost: 12,
			Realm:      "Login Required",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		AfricaTalking: AfricaTalkingConfig{
			SMSURL:   "https://api.sandbox.africastalking.com/version1/messaging", // Sandbox URL
			SenderID: "AFRICASTKNG",                                               // Default sandbox sender ID
		},
		Email: EmailConfig{
			AWSRegion: "us-east-1",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CUSTOMERS_CONFIG (if any), then environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CUSTOMERS_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Addr = getEnvOrDefault("HTTP_ADDR", cfg.HTTP.Addr)

	var err error
	if cfg.HTTP.RequestTimeout, err = durationEnv("HTTP_REQUEST_TIMEOUT", cfg.HTTP.RequestTimeout); err != nil {
		return err
	}
	if cfg.HTTP.ShutdownTimeout, err = durationEnv("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout); err != nil {
		return err
	}

	db := &cfg.Database
	db.Driver = getEnvOrDefault("DB_DRIVER", db.Driver)
	db.Host = getEnvOrDefault("POSTGRES_HOST", db.Host)
	db.User = getEnvOrDefault("POSTGRES_USER", db.User)
	db.Password = getEnvOrDefault("POSTGRES_PASSWORD", db.Password)
	db.Name = getEnvOrDefault("POSTGRES_DB", db.Name)
	db.Port = getEnvOrDefault("DB_PORT", db.Port)
	db.SSLMode = getEnvOrDefault("DB_SSLMODE", db.SSLMode)
	db.TimeZone = getEnvOrDefault("DB_TIMEZONE", db.TimeZone)
	db.Path = getEnvOrDefault("SQLITE_PATH", db.Path)
	db.LogLevel = getEnvOrDefault("DB_LOG_LEVEL", db.LogLevel)
	if db.AutoMigrate, err = boolEnv("DB_AUTO_MIGRATE", db.AutoMigrate); err != nil {
		return err
	}

	if cfg.Auth.BcryptCost, err = intEnv("BCRYPT_COST", cfg.Auth.BcryptCost); err != nil {
		return err
	}
	cfg.Auth.Realm = getEnvOrDefault("AUTH_REALM", cfg.Auth.Realm)

	cfg.Logging.Level = getEnvOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvOrDefault("LOG_FORMAT", cfg.Logging.Format)

	at := &cfg.AfricaTalking
	at.Username = getEnvOrDefault("AT_USERNAME", at.Username)
	at.APIKey = getEnvOrDefault("AT_API_KEY", at.APIKey)
	at.SMSURL = getEnvOrDefault("AT_SMS_URL", at.SMSURL)
	at.SenderID = getEnvOrDefault("AT_SENDER_ID", at.SenderID)

	em := &cfg.Email
	em.AWSAccessKeyID = getEnvOrDefault("AWS_ACCESS_KEY_ID", em.AWSAccessKeyID)
	em.AWSSecretAccessKey = getEnvOrDefault("AWS_SECRET_ACCESS_KEY", em.AWSSecretAccessKey)
	em.AWSRegion = getEnvOrDefault("AWS_REGION", em.AWSRegion)
	em.SenderEmail = getEnvOrDefault("AWS_SENDER_ADDRESS", em.SenderEmail)

	return nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.HTTP.RequestTimeout)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d is out of range", c.Auth.BcryptCost)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}
