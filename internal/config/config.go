// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// PostgreSQL (credential store)
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// MongoDB (document store)
	MongoURI                 string `mapstructure:"MONGO_URI"`
	MongoDBName              string `mapstructure:"MONGO_DB_NAME"`
	MongoCVCollection        string `mapstructure:"MONGO_CV_COLLECTION"`
	MongoInterviewCollection string `mapstructure:"MONGO_INTERVIEW_COLLECTION"`
	MongoFeedbackCollection  string `mapstructure:"MONGO_FEEDBACK_COLLECTION"`

	// JWT
	JWTSecretKey         string        `mapstructure:"SECRET_KEY"`
	JWTAccessTokenExpiry time.Duration `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`

	// External model API
	ModelAPIURL     string        `mapstructure:"MODEL_API_URL"`
	ModelAPITimeout time.Duration `mapstructure:"API_TIMEOUT_SECONDS"`

	// Google OAuth
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`

	// OAuth state store
	OAuthStateTTL time.Duration `mapstructure:"OAUTH_STATE_TTL_MINUTES"`

	// Frontend URLs for CORS and OAuth redirects
	FrontendURL        string `mapstructure:"FRONTEND_URL"`
	FrontendSuccessURL string `mapstructure:"FRONTEND_SUCCESS_URL"`
	FrontendErrorURL   string `mapstructure:"FRONTEND_ERROR_URL"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// CV upload retention
	CVStoragePath string `mapstructure:"CV_STORAGE_PATH"`

	// Elasticsearch (transcript search; empty URL disables it)
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// Cron Jobs
	UserDeactivationSchedule string `mapstructure:"USER_DEACTIVATION_SCHEDULE"`
	UserDormantMonths        int    `mapstructure:"USER_DORMANT_MONTHS"`
}

// DSN builds the GORM PostgreSQL DSN from the individual DB_* parameters.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "ai_interview_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "ai_interview")
	v.SetDefault("MONGO_CV_COLLECTION", "cvs")
	v.SetDefault("MONGO_INTERVIEW_COLLECTION", "interviews")
	v.SetDefault("MONGO_FEEDBACK_COLLECTION", "feedback")

	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)

	v.SetDefault("MODEL_API_URL", "http://localhost:9000")
	v.SetDefault("API_TIMEOUT_SECONDS", 10)

	v.SetDefault("OAUTH_STATE_TTL_MINUTES", 10)

	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("FRONTEND_SUCCESS_URL", "http://localhost:5173/auth/success")
	v.SetDefault("FRONTEND_ERROR_URL", "http://localhost:5173/auth/error")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("CV_STORAGE_PATH", "./uploads")

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.SetDefault("USER_DEACTIVATION_SCHEDULE", "@daily")
	v.SetDefault("USER_DORMANT_MONTHS", 12)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute
	cfg.ModelAPITimeout = time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second
	cfg.OAuthStateTTL = time.Duration(v.GetInt("OAUTH_STATE_TTL_MINUTES")) * time.Minute

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: SECRET_KEY is not set. Tokens cannot be signed without it")
	}

	return &cfg, nil
}
