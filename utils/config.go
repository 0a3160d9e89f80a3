package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultAllowedOrigin = "https://digcard.netlify.app"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Port            string
	LogDir          string
	ShutdownTimeout time.Duration

	Store StoreConfig
	CORS  CORSConfig
}

type StoreConfig struct {
	Driver string

	// Mongo
	MongoURI   string
	Database   string
	Collection string

	// postgres / sqlite
	DSN string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
}

// Dotconfig loads a .env file when there is one. Variables already set in
// the environment win.
func Dotconfig() {
	_ = godotenv.Load()
}

// LoadConfig reads the environment. Call Validate before using the result.
func LoadConfig() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "4000"),
		LogDir:          getEnv("LOG_DIR", "logs"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
			MongoURI:   os.Getenv("MONGODB_URI"),
			Database:   getEnv("MONGODB_DATABASE", "digcard"),
			Collection: getEnv("MONGODB_COLLECTION", "profiles"),
			DSN:        os.Getenv("DATABASE_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getListEnv("ALLOWED_ORIGIN", []string{DefaultAllowedOrigin}),
			AllowedMethods: getListEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		},
	}

	return cfg
}

// Validate fails when the connection string for the selected store driver is
// missing.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MongoDB URI is missing: set MONGODB_URI")
		}
	case DriverPostgres, DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
