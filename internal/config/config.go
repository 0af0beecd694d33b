package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration read from the environment
type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	CORSAllowOrigin string
	AutoMigrate     bool
	Database        DatabaseConfig

	// EnvFile is the dotenv file that was loaded, empty when none was found
	EnvFile string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxConns     int32
	MaxRetries   int
	InitialDelay time.Duration
}

// DSN returns URL when set, otherwise a keyword/value connection string
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	parts := []string{
		"host=" + c.Host,
		"port=" + strconv.Itoa(c.Port),
		"user=" + c.User,
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}
	parts = append(parts, "dbname="+c.DBName, "sslmode="+c.SSLMode)
	return strings.Join(parts, " ")
}

// Load reads .env if present, then the environment
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile reads the given dotenv file if present, then the environment.
// Variables already set in the environment win over the file.
func LoadFile(path string) (Config, error) {
	loaded := godotenv.Load(path) == nil
	cfg, err := FromEnv()
	if loaded {
		cfg.EnvFile = path
	}
	return cfg, err
}

// FromEnv builds a Config from environment variables with defaults
func FromEnv() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "4000"),
		GinMode:         os.Getenv("GIN_MODE"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			Host:         getEnv("DB_HOST", "localhost"),
			User:         getEnv("DB_USER", "sales_admin"),
			Password:     os.Getenv("DB_PASSWORD"),
			DBName:       getEnv("DB_NAME", "sales_db"),
			SSLMode:      getEnv("DB_SSLMODE", "prefer"),
			InitialDelay: time.Second,
		},
	}

	var err error
	if cfg.Database.Port, err = getInt("DB_PORT", 5432); err != nil {
		return cfg, err
	}
	if cfg.Database.MaxRetries, err = getInt("DB_MAX_RETRIES", 5); err != nil {
		return cfg, err
	}
	maxConns, err := getInt("DB_MAX_CONNS", 30)
	if err != nil {
		return cfg, err
	}
	cfg.Database.MaxConns = int32(maxConns)
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", true); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return v, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return v, nil
}
