package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	AppEnv   string
	DemoMode bool

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
	JWTExpire time.Duration
	APIKey    string

	AllowedOrigins string

	ResendAPIKey string
	EmailFrom    string
	AppURL       string

	TerraAPIURL        string
	TerraDevID         string
	TerraAPIKey        string
	TerraSigningSecret string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment. Values from a .env
// file in the working directory are loaded first when the file exists;
// variables already set in the environment take precedence.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnv("PORT", "5000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "fittrack"),
		DBPassword: getEnv("DB_PASSWORD", "fittrack_pass"),
		DBName:     getEnv("DB_NAME", "fittrack"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpire: getDuration("JWT_EXPIRE", 7*24*time.Hour),
		APIKey:    getEnv("API_KEY", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "FitTrack <onboarding@resend.dev>"),
		AppURL:       getEnv("APP_URL", "http://localhost:5173"),

		TerraAPIURL:        getEnv("TERRA_API_URL", "https://api.tryterra.co/v2"),
		TerraDevID:         getEnv("TERRA_DEV_ID", ""),
		TerraAPIKey:        getEnv("TERRA_API_KEY", ""),
		TerraSigningSecret: getEnv("TERRA_SIGNING_SECRET", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
	cfg.DemoMode = getBool("DEMO_MODE", false) || cfg.DBHost == ""
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4&loc=UTC"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("168h") and day counts ("7d").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return fallback
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
