package config

import (
	"os"
	"strconv"
	"time"
)

// APIConfig holds the settings for one remote Person API.
type APIConfig struct {
	URL        string
	TimeoutSec int
	// RateLimit is the maximum number of requests per second sent to the API.
	// Zero disables client-side limiting.
	RateLimit float64
	RateBurst int
}

// Timeout returns the configured per-request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// SessionConfig holds the cookie session settings used for flash messages.
type SessionConfig struct {
	CookieName    string
	ExpirationSec int
	CookieSecure  bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Timezone   string
	LogLevel   string
	Command    APIConfig
	Query      APIConfig
	HealthPath string
	Session    SessionConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Command: APIConfig{
			URL:        getEnv("COMMAND_API_URL", "http://localhost:8081"),
			TimeoutSec: getEnvInt("COMMAND_API_TIMEOUT_SEC", 10),
			RateLimit:  getEnvFloat("COMMAND_API_RATE_LIMIT", 0),
			RateBurst:  getEnvInt("COMMAND_API_RATE_BURST", 1),
		},
		Query: APIConfig{
			URL:        getEnv("QUERY_API_URL", "http://localhost:8082"),
			TimeoutSec: getEnvInt("QUERY_API_TIMEOUT_SEC", 10),
			RateLimit:  getEnvFloat("QUERY_API_RATE_LIMIT", 0),
			RateBurst:  getEnvInt("QUERY_API_RATE_BURST", 1),
		},
		HealthPath: getEnv("API_HEALTH_PATH", "/health"),
		Session: SessionConfig{
			CookieName:    getEnv("SESSION_COOKIE_NAME", "personweb_session"),
			ExpirationSec: getEnvInt("SESSION_EXPIRATION_SEC", 3600),
			CookieSecure:  getEnvBool("SESSION_COOKIE_SECURE", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
