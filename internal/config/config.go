// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessSecret  = "dev-access-secret-change-in-production"
	defaultRefreshSecret = "dev-refresh-secret-change-in-production"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	BodyLimitMB    int    `mapstructure:"BODY_LIMIT_MB"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`

	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBSSLMode                string `mapstructure:"DB_SSLMODE"`
	DBReadHost               string `mapstructure:"DB_READ_HOST"`
	DBReadPort               string `mapstructure:"DB_READ_PORT"`
	DBReadUser               string `mapstructure:"DB_READ_USER"`
	DBReadPassword           string `mapstructure:"DB_READ_PASSWORD"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBAutoMigrate            bool   `mapstructure:"DB_AUTO_MIGRATE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	TokenIssuer        string        `mapstructure:"TOKEN_ISSUER"`
	BcryptCost         int           `mapstructure:"BCRYPT_COST"`
	CookieSecure       bool          `mapstructure:"COOKIE_SECURE"`

	OTelEnabled      bool    `mapstructure:"OTEL_ENABLED"`
	OTelExporter     string  `mapstructure:"OTEL_EXPORTER"`
	OTelEndpoint     string  `mapstructure:"OTEL_ENDPOINT"`
	OTelSamplerRatio float64 `mapstructure:"OTEL_SAMPLER_RATIO"`

	RootAdminName     string `mapstructure:"ROOT_ADMIN_NAME"`
	RootAdminEmail    string `mapstructure:"ROOT_ADMIN_EMAIL"`
	RootAdminPassword string `mapstructure:"ROOT_ADMIN_PASSWORD"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(env)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(env string) {
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("BODY_LIMIT_MB", 4)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "example")
	viper.SetDefault("DB_NAME", "bend-backend-task")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_READ_HOST", "")
	viper.SetDefault("DB_READ_PORT", "5432")
	viper.SetDefault("DB_READ_USER", "postgres")
	viper.SetDefault("DB_READ_PASSWORD", "example")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("DB_AUTO_MIGRATE", !IsProduction(env))

	viper.SetDefault("REDIS_URL", "localhost:6379")

	viper.SetDefault("ACCESS_TOKEN_SECRET", defaultAccessSecret)
	viper.SetDefault("REFRESH_TOKEN_SECRET", defaultRefreshSecret)
	viper.SetDefault("ACCESS_TOKEN_TTL", "10m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "24h")
	viper.SetDefault("TOKEN_ISSUER", "blogapi")
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("COOKIE_SECURE", true)

	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER", "stdout")
	viper.SetDefault("OTEL_ENDPOINT", "localhost:4318")
	viper.SetDefault("OTEL_SAMPLER_RATIO", 1.0)

	viper.SetDefault("ROOT_ADMIN_NAME", "")
	viper.SetDefault("ROOT_ADMIN_EMAIL", "")
	viper.SetDefault("ROOT_ADMIN_PASSWORD", "")
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.OTelExporter = strings.ToLower(strings.TrimSpace(c.OTelExporter))
	c.RootAdminEmail = strings.ToLower(strings.TrimSpace(c.RootAdminEmail))
}

// IsProduction reports whether env names a production profile.
func IsProduction(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "production" || env == "prod"
}

// IsProduction reports whether the config targets production.
func (c *Config) IsProduction() bool {
	return IsProduction(c.Env)
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.OTelSamplerRatio < 0 || c.OTelSamplerRatio > 1 {
		return errors.New("OTEL_SAMPLER_RATIO must be between 0 and 1")
	}
	if c.RootAdminEmail != "" && c.RootAdminPassword == "" {
		return errors.New("ROOT_ADMIN_PASSWORD must be set when ROOT_ADMIN_EMAIL is set")
	}

	if c.IsProduction() {
		for name, secret := range map[string]string{
			"ACCESS_TOKEN_SECRET":  c.AccessTokenSecret,
			"REFRESH_TOKEN_SECRET": c.RefreshTokenSecret,
		} {
			if secret == defaultAccessSecret || secret == defaultRefreshSecret {
				return fmt.Errorf("%s must be changed from the default value in production", name)
			}
			if len(secret) < 32 {
				return fmt.Errorf("%s must be at least 32 characters in production", name)
			}
		}
		if c.DBPassword == "example" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.AccessTokenSecret) < 32 || len(c.RefreshTokenSecret) < 32 {
		log.Println("WARNING: token secrets are shorter than 32 characters. Consider using stronger secrets for production.")
	}

	return nil
}

// DSN builds the PostgreSQL connection string for the primary database.
func (c *Config) DSN() string {
	return buildDSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// ReadDSN builds the connection string for the read replica, or "" when none is configured.
func (c *Config) ReadDSN() string {
	if c.DBReadHost == "" {
		return ""
	}
	return buildDSN(c.DBReadHost, c.DBReadPort, c.DBReadUser, c.DBReadPassword, c.DBName, c.DBSSLMode)
}

func buildDSN(host, port, user, password, name, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode,
	)
}
