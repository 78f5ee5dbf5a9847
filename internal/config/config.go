package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/db"

	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	Env       string
	AppPort   string
	Version   string
	WebServer string

	// Database
	DBDriver   string // optional override: postgres | mysql
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Bootstrap retry policy
	DBConnectRetries int
	DBConnectDelay   time.Duration

	// Logging
	LogLevel string
	LogJSON  bool

	// Rate limiting of task creation
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CreateRateLimit  int
	CreateRateWindow time.Duration

	// Proxies allowed to set X-Forwarded-For; empty trusts none.
	TrustedProxies []string
}

// Production reports whether the process runs in production mode.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// DBParams returns the database connection parameters.
func (c *Config) DBParams() db.Params {
	return db.Params{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// Load reads configuration from the environment, after an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	env := firstNonEmpty(os.Getenv("APP_ENV"), os.Getenv("NODE_ENV"), "development")

	webServer := os.Getenv("WEB_SERVER")
	if webServer == "" {
		if env == EnvProduction {
			webServer = "Nginx"
		} else {
			webServer = "Apache"
		}
	}

	return &Config{
		Env:       env,
		AppPort:   firstNonEmpty(os.Getenv("PORT"), os.Getenv("APP_PORT"), "3000"),
		Version:   firstNonEmpty(os.Getenv("APP_VERSION"), "dev"),
		WebServer: webServer,

		DBDriver:   strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER"))),
		DBHost:     firstNonEmpty(os.Getenv("DB_HOST"), "localhost"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  firstNonEmpty(os.Getenv("DB_SSLMODE"), "disable"),

		DBConnectRetries: positiveInt("DB_CONNECT_RETRIES", 25),
		DBConnectDelay:   time.Duration(positiveInt("DB_CONNECT_DELAY_SECONDS", 15)) * time.Second,

		LogLevel: firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		LogJSON:  strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          nonNegativeInt("REDIS_DB", 0),
		CreateRateLimit:  positiveInt("CREATE_RATE_LIMIT", 30),
		CreateRateWindow: time.Duration(positiveInt("CREATE_RATE_WINDOW_SECONDS", 60)) * time.Second,

		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// splitList parses a comma separated list, dropping empty items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// positiveInt falls back to def when the variable is unset, malformed or <= 0.
func positiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func nonNegativeInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
