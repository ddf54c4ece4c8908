package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the marketplace, loaded from
// environment variables (a .env file is honored if present).
type Config struct {
	HTTPAddr string
	// Store selects the persistence backend: "postgres" (default) or
	// "memory" for the self-contained demo mode with seeded data.
	Store string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:   getenv("HTTP_ADDR", ":9000"),
		Store:      getenv("STORE", "postgres"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
	}
	return cfg
}

// PostgresDSN builds the connection string used by both the pool and the
// migrations runner.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
