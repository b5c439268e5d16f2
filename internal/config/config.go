package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" envconfig:"SERVER_PORT"`
		Mode string `yaml:"mode" envconfig:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Driver          string        `yaml:"driver" envconfig:"DB_DRIVER"`
		Host            string        `yaml:"host" envconfig:"DB_HOST"`
		Port            string        `yaml:"port" envconfig:"DB_PORT"`
		User            string        `yaml:"user" envconfig:"DB_USER"`
		Password        string        `yaml:"password" envconfig:"DB_PASSWORD"`
		DBName          string        `yaml:"dbname" envconfig:"DB_NAME"`
		SSLMode         string        `yaml:"sslmode" envconfig:"DB_SSLMODE"`
		MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string        `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string        `yaml:"secret" envconfig:"JWT_SECRET"`
		AccessTokenExpiration time.Duration `yaml:"access_token_expiration" envconfig:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string        `yaml:"issuer" envconfig:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		BcryptCost int `yaml:"bcrypt_cost" envconfig:"AUTH_BCRYPT_COST"`
	} `yaml:"auth"`

	RateLimit struct {
		Requests int           `yaml:"requests" envconfig:"RATE_LIMIT_REQUESTS"`
		Window   time.Duration `yaml:"window" envconfig:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`

	Seed struct {
		Enabled bool `yaml:"enabled" envconfig:"SEED_ENABLED"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
		Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults and env vars are enough for the memory driver
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
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "registrar"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.AccessTokenExpiration = time.Hour
	config.JWT.Issuer = "registrar.app"

	config.Auth.BcryptCost = bcrypt.DefaultCost

	config.RateLimit.Requests = 100
	config.RateLimit.Window = time.Minute

	config.Seed.Enabled = true

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with the environment variables that are set.
// Sections are processed without a prefix so each envconfig tag is the exact variable name.
func loadFromEnv(config *Config) error {
	sections := []interface{}{
		&config.Server,
		&config.Database,
		&config.JWT,
		&config.Auth,
		&config.RateLimit,
		&config.Seed,
		&config.Logging,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return err
		}
	}
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch strings.ToLower(config.Database.Driver) {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMemory:
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.JWT.AccessTokenExpiration <= 0 {
		return fmt.Errorf("JWT access token expiration must be positive")
	}

	if config.Auth.BcryptCost < bcrypt.MinCost || config.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if config.RateLimit.Requests < 0 {
		return fmt.Errorf("rate limit requests must not be negative")
	}
	if config.RateLimit.Requests > 0 && config.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}

	if config.Database.ConnMaxLifetime < 0 {
		return fmt.Errorf("connection max lifetime must not be negative")
	}

	return nil
}

// UsesMemoryStore reports whether the in-memory store is configured
func (c *Config) UsesMemoryStore() bool {
	return strings.EqualFold(c.Database.Driver, DriverMemory)
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

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
