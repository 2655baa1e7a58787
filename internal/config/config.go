package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
	// APIKey, when set, gates every API route behind a static bearer key.
	APIKey string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// AWSConfig contains federation and aggregation configuration
type AWSConfig struct {
	// DefaultRegion is where identity checks run during verification.
	DefaultRegion string
	// DefaultRegions is the platform's standard operating region list,
	// used when a resource query carries no region filter.
	DefaultRegions []string
	// BucketRegion is the canonical region for global-namespace listings.
	BucketRegion string
	// SessionNamePrefix prefixes every role-session name for audit trails.
	SessionNamePrefix string
	// SessionDuration bounds the lifetime of federated credentials.
	SessionDuration time.Duration
	// FederationTimeout bounds a single role-assumption call.
	FederationTimeout time.Duration
	// MaxConcurrentUnits bounds the aggregation worker pool.
	MaxConcurrentUnits int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			APIKey:          getEnv("API_KEY", ""),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "fleetscope"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./fleetscope.db"),
		},
		AWS: AWSConfig{
			DefaultRegion:      getEnv("AWS_DEFAULT_REGION", "us-east-1"),
			DefaultRegions:     getEnvAsSlice("AWS_OPERATING_REGIONS", []string{"us-east-1", "us-west-2", "eu-west-1"}),
			BucketRegion:       getEnv("AWS_BUCKET_REGION", "us-east-1"),
			SessionNamePrefix:  getEnv("AWS_SESSION_NAME_PREFIX", "fleetscope"),
			SessionDuration:    getEnvAsDuration("AWS_SESSION_DURATION", 15*time.Minute),
			FederationTimeout:  getEnvAsDuration("AWS_FEDERATION_TIMEOUT", 10*time.Second),
			MaxConcurrentUnits: getEnvAsInt("AWS_MAX_CONCURRENT_UNITS", 1),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if len(c.AWS.DefaultRegions) == 0 {
		return fmt.Errorf("AWS_OPERATING_REGIONS must name at least one region")
	}

	if c.AWS.SessionDuration < 15*time.Minute {
		// STS rejects durations under 900 seconds.
		return fmt.Errorf("AWS_SESSION_DURATION must be at least 15m, got %s", c.AWS.SessionDuration)
	}

	if c.AWS.MaxConcurrentUnits < 1 {
		return fmt.Errorf("AWS_MAX_CONCURRENT_UNITS must be at least 1")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
