package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads the environment variables from .env when GO_ENV is
// unset or development
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil {
			// .env is optional outside development setups
			if !os.IsNotExist(err) {
				return err
			}
		}
	}

	return nil
}

// Env holds all environment-derived configuration
type Env struct {
	GO_ENV       string
	PORT         int
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// Redis Configuration
	REDIS_URL string
	// CORS Configuration
	ALLOWED_ORIGINS string
	// Demo data seeding
	SEED_DEMO_DATA bool
}

// Get reads the environment into an Env struct with defaults applied
func Get() (*Env, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8001
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	sslMode := os.Getenv("DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	env := &Env{
		GO_ENV:          os.Getenv("GO_ENV"),
		PORT:            port,
		DB_USER_NAME:    os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		DB_HOST:         dbHost,
		DB_PORT:         dbPort,
		DB_SSL_MODE:     sslMode,
		REDIS_URL:       redisURL,
		ALLOWED_ORIGINS: allowedOrigins,
		SEED_DEMO_DATA:  os.Getenv("SEED_DEMO_DATA") != "false",
	}

	return env, nil
}
