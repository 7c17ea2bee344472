package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application settings, read from the environment.
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
}

type AppConfig struct {
	Env               string // development, production
	LogLevel          string
	InitialOwnerEmail string
}

// DBConfig holds database connection parameters. DatabaseURL wins when set.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int64
	Issuer          string
}

type HTTPConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// ConnectionString returns DatabaseURL or a URL built from the parts.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Addr is the listen address of the HTTP server.
func (c HTTPConfig) Addr() string {
	return ":" + c.Port
}

// Load reads configuration from environment variables. JWT_SECRET_KEY is required.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:               getString(v, "APP_ENV", "development"),
			LogLevel:          getString(v, "LOG_LEVEL", "info"),
			InitialOwnerEmail: getString(v, "INITIAL_OWNER_EMAIL", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "orderdesk"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:          getString(v, "JWT_SECRET_KEY", ""),
			ExpirationHours: int64(getInt(v, "JWT_EXPIRATION_HOURS", 24)),
			Issuer:          getString(v, "JWT_ISSUER", "orderdesk"),
		},
		HTTP: HTTPConfig{
			Port:            getString(v, "SERVER_PORT", "8080"),
			ShutdownTimeout: getDuration(v, "SHUTDOWN_TIMEOUT", 5*time.Second),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET_KEY not set in environment")
	}
	if cfg.JWT.ExpirationHours <= 0 {
		cfg.JWT.ExpirationHours = 24
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) && v.GetString(key) != "" {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return n
}

// getDuration accepts Go durations ("10s") or plain seconds ("10").
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
