package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL      string `yaml:"public_url" env:"PUBLIC_URL"`
		FrontendURL    string `yaml:"frontend_url" env:"FRONTEND_URL"`
		AllowedOrigins string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
		StoragePath    string `yaml:"storage_path" env:"STORAGE_PATH"`
	} `yaml:"server"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		UnsubscribeSecret     string `yaml:"unsubscribe_secret" env:"UNSUBSCRIBE_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		ResetTokenExpiration  string `yaml:"reset_token_expiration" env:"JWT_RESET_TOKEN_EXPIRATION"`
		UnsubscribeExpiration string `yaml:"unsubscribe_expiration" env:"JWT_UNSUBSCRIBE_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USER"`
		Password  string `yaml:"password" env:"SMTP_PASS"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Media struct {
		Driver        string `yaml:"driver" env:"MEDIA_DRIVER"`
		Endpoint      string `yaml:"endpoint" env:"ALI_OSS_ENDPOINT"`
		AccessKey     string `yaml:"access_key" env:"ALI_OSS_ACCESS_KEY"`
		SecretKey     string `yaml:"secret_key" env:"ALI_OSS_SECRET_KEY"`
		Bucket        string `yaml:"bucket" env:"ALI_OSS_BUCKET"`
		PublicBaseURL string `yaml:"public_base_url" env:"ALI_OSS_PUBLIC_BASE"`
		Prefix        string `yaml:"prefix" env:"MEDIA_PREFIX"`
		MaxImageWidth int    `yaml:"max_image_width" env:"MEDIA_MAX_IMAGE_WIDTH"`
	} `yaml:"media"`

	Google struct {
		ClientID string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	} `yaml:"google"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	RateLimit struct {
		Window string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
		Max    int    `yaml:"max" env:"RATE_LIMIT_MAX"`
	} `yaml:"rate_limit"`

	Admin struct {
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
		Name     string `yaml:"name" env:"ADMIN_NAME"`
	} `yaml:"admin"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is loaded into the process environment first.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is fine, real deployments pass variables directly
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "4000"
	config.Server.Mode = "development"
	config.Server.PublicURL = "http://localhost:4000"
	config.Server.FrontendURL = "http://localhost:3000"
	config.Server.AllowedOrigins = "http://localhost:3000"
	config.Server.StoragePath = "uploads"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "ypropel"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "168h"
	config.JWT.ResetTokenExpiration = "1h"
	config.JWT.UnsubscribeExpiration = "2160h"
	config.JWT.Issuer = "ypropel"

	config.SMTP.Port = 587
	config.SMTP.FromName = "YPropel"
	config.SMTP.UseTLS = true

	config.Media.Driver = "local"
	config.Media.Prefix = "ypropel"
	config.Media.MaxImageWidth = 1600

	config.RateLimit.Window = "15m"
	config.RateLimit.Max = 10

	config.Admin.Name = "YPropel Admin"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database url or host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.JWT.UnsubscribeSecret == "" {
		return fmt.Errorf("unsubscribe secret is required")
	}

	if config.JWT.UnsubscribeSecret == config.JWT.Secret {
		return fmt.Errorf("unsubscribe secret must differ from the JWT secret")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"JWT reset token expiration":  config.JWT.ResetTokenExpiration,
		"unsubscribe link expiration": config.JWT.UnsubscribeExpiration,
		"rate limit window":           config.RateLimit.Window,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch strings.ToLower(config.Media.Driver) {
	case "local":
	case "oss":
		if config.Media.Endpoint == "" || config.Media.AccessKey == "" || config.Media.SecretKey == "" || config.Media.Bucket == "" {
			return fmt.Errorf("oss media driver requires endpoint, access key, secret key and bucket")
		}
	default:
		return fmt.Errorf("unknown media driver %q", config.Media.Driver)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// CORSOrigins splits the comma separated origin list
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
