package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		PublicBaseURL  string   `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		CORSOrigins    []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
		RequestTimeout string   `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Redis is optional. An empty URL disables event publishing and the
	// distributed fan-out claim.
	Redis struct {
		URL string `yaml:"url" env:"REDIS_URL"`
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
		// TokenExpiration only applies to tokens minted by this service (tests, local tooling)
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Auth struct {
		AdminEmails []string `yaml:"admin_emails" env:"AUTH_ADMIN_EMAILS"`
	} `yaml:"auth"`

	Storage struct {
		LocalPath     string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		SigningSecret string `yaml:"signing_secret" env:"STORAGE_SIGNING_SECRET"`
		SignedURLTTL  string `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL"`
	} `yaml:"storage"`

	Webhook struct {
		WelcomeURL    string  `yaml:"welcome_url" env:"WEBHOOK_WELCOME_URL"`
		Timeout       string  `yaml:"timeout" env:"WEBHOOK_TIMEOUT"`
		RatePerSecond float64 `yaml:"rate_per_second" env:"WEBHOOK_RATE_PER_SECOND"`
		Burst         int     `yaml:"burst" env:"WEBHOOK_BURST"`
	} `yaml:"webhook"`

	// Mail sends the welcome mail directly; it can run alongside the webhook
	Mail struct {
		Host      string `yaml:"host" env:"MAIL_HOST"`
		Port      int    `yaml:"port" env:"MAIL_PORT"`
		Username  string `yaml:"username" env:"MAIL_USERNAME"`
		Password  string `yaml:"password" env:"MAIL_PASSWORD"`
		FromName  string `yaml:"from_name" env:"MAIL_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"MAIL_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"MAIL_USE_TLS"`
		PortalURL string `yaml:"portal_url" env:"MAIL_PORTAL_URL"`
	} `yaml:"mail"`

	Notifications struct {
		FanOutTimeout     string `yaml:"fanout_timeout" env:"NOTIFICATIONS_FANOUT_TIMEOUT"`
		ReconcileSchedule string `yaml:"reconcile_schedule" env:"NOTIFICATIONS_RECONCILE_SCHEDULE"`
		PruneSchedule     string `yaml:"prune_schedule" env:"NOTIFICATIONS_PRUNE_SCHEDULE"`
		Retention         string `yaml:"retention" env:"NOTIFICATIONS_RETENTION"`
		ReconcileWorkers  int    `yaml:"reconcile_workers" env:"NOTIFICATIONS_RECONCILE_WORKERS"`
	} `yaml:"notifications"`

	Assistant struct {
		APIKey  string `yaml:"api_key" env:"ASSISTANT_API_KEY"`
		Model   string `yaml:"model" env:"ASSISTANT_MODEL"`
		Timeout string `yaml:"timeout" env:"ASSISTANT_TIMEOUT"`
	} `yaml:"assistant"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file next to the working directory is loaded first when present;
// variables already set in the process environment win over it.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
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
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicBaseURL = "http://localhost:8080"
	config.Server.CORSOrigins = []string{"http://localhost:5173"}
	config.Server.RequestTimeout = "15s"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "placementprep"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.Issuer = "placementprep.app"
	config.JWT.TokenExpiration = "24h"

	// Storage defaults
	config.Storage.LocalPath = "./media"
	config.Storage.SignedURLTTL = "15m"

	// Webhook defaults
	config.Webhook.Timeout = "5s"
	config.Webhook.RatePerSecond = 5
	config.Webhook.Burst = 10

	// Mail defaults
	config.Mail.Port = 587
	config.Mail.FromName = "PlacementPrep"

	// Notification defaults
	config.Notifications.FanOutTimeout = "30s"
	config.Notifications.ReconcileSchedule = "@every 15m"
	config.Notifications.PruneSchedule = "@daily"
	config.Notifications.Retention = "2160h"
	config.Notifications.ReconcileWorkers = 4

	// Assistant defaults
	config.Assistant.Model = "gemini-2.5-flash"
	config.Assistant.Timeout = "30s"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Storage.SigningSecret == "" {
		return fmt.Errorf("storage signing secret is required")
	}

	durations := map[string]string{
		"server.request_timeout":       config.Server.RequestTimeout,
		"database.conn_max_lifetime":   config.Database.ConnMaxLifetime,
		"jwt.token_expiration":         config.JWT.TokenExpiration,
		"storage.signed_url_ttl":       config.Storage.SignedURLTTL,
		"webhook.timeout":              config.Webhook.Timeout,
		"notifications.fanout_timeout": config.Notifications.FanOutTimeout,
		"notifications.retention":      config.Notifications.Retention,
		"assistant.timeout":            config.Assistant.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s duration %q: %w", name, value, err)
		}
	}

	if config.Webhook.RatePerSecond <= 0 {
		return fmt.Errorf("webhook rate_per_second must be positive")
	}
	if config.Notifications.ReconcileWorkers < 1 {
		return fmt.Errorf("notifications reconcile_workers must be at least 1")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
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

// IsAdminEmail reports whether email is on the configured admin allow-list
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, admin := range c.Auth.AdminEmails {
		if strings.ToLower(strings.TrimSpace(admin)) == email {
			return true
		}
	}
	return false
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
