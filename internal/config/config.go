// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"uniconnect/internal/featureflags"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	APIBaseURL         string  `mapstructure:"API_BASE_URL"`
	HTTPTimeoutSeconds int     `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	SessionStore       string  `mapstructure:"SESSION_STORE"`
	SessionFile        string  `mapstructure:"SESSION_FILE"`
	RedisURL           string  `mapstructure:"REDIS_URL"`
	FeatureFlags       string  `mapstructure:"FEATURE_FLAGS"`
	Port               string  `mapstructure:"PORT"`
	JWTSecret          string  `mapstructure:"JWT_SECRET"`
	DBDriver           string  `mapstructure:"DB_DRIVER"`
	DBDSN              string  `mapstructure:"DB_DSN"`
	DBHost             string  `mapstructure:"DB_HOST"`
	DBPort             string  `mapstructure:"DB_PORT"`
	DBUser             string  `mapstructure:"DB_USER"`
	DBPassword         string  `mapstructure:"DB_PASSWORD"`
	DBName             string  `mapstructure:"DB_NAME"`
	DBSSLMode          string  `mapstructure:"DB_SSLMODE"`
	AllowedOrigins     string  `mapstructure:"ALLOWED_ORIGINS"`
	Env                string  `mapstructure:"APP_ENV"`
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional
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

	viper.SetDefault("API_BASE_URL", "https://uniconnectbackend.onrender.com")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	viper.SetDefault("SESSION_STORE", "memory")
	viper.SetDefault("SESSION_FILE", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("FEATURE_FLAGS", featureflags.DefaultFlags)
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "uniconnect.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "uniconnect")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

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

func (c *Config) normalize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
}

// IsProduction reports whether the production rules apply.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// HTTPTimeout is the per-request timeout of the REST client.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	}

	switch c.SessionStore {
	case "memory", "file":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_STORE is redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be memory, file or redis, got %q", c.SessionStore)
	}
	if c.SessionStore == "file" && c.SessionFile == "" {
		return errors.New("SESSION_FILE is required when SESSION_STORE is file")
	}

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}

	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if !strings.HasPrefix(c.APIBaseURL, "https://") {
			return errors.New("API_BASE_URL must use https in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}

// PostgresDSN builds a DSN from the host parameters when DB_DSN is not a postgres URL.
func (c *Config) PostgresDSN() string {
	if strings.HasPrefix(c.DBDSN, "postgres://") || strings.HasPrefix(c.DBDSN, "postgresql://") {
		return c.DBDSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
