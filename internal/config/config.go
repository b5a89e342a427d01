package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	// Storage: postgres, sqlite or memory
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Token settings
	AccessTokenSecret  string
	AccessTokenTTL     time.Duration
	RefreshTokenSecret string
	RefreshTokenTTL    time.Duration
	CookieSecure       bool
	CORSOrigin         string

	// Seeded administrator, skipped when either is empty
	AdminUsername string
	AdminPassword string

	// Redis backs the token blacklist and PIN attempt counter; empty means in-process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PinMaxAttempts   int
	PinAttemptWindow time.Duration

	// Export archive, disabled while S3Bucket is empty
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"GIN_MODE":             "release",
	"LOG_LEVEL":            "info",
	"DB_DRIVER":            "postgres",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "postgres",
	"DB_NAME":              "attendance_db",
	"DB_SSLMODE":           "disable",
	"SQLITE_PATH":          "attendance.db",
	"ACCESS_TOKEN_SECRET":  "",
	"ACCESS_TOKEN_EXPIRY":  "15m",
	"REFRESH_TOKEN_SECRET": "",
	"REFRESH_TOKEN_EXPIRY": "168h",
	"COOKIE_SECURE":        true,
	"CORS_ORIGIN":          "http://localhost:3000",
	"ADMIN_USERNAME":       "",
	"ADMIN_PASSWORD":       "",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"PIN_MAX_ATTEMPTS":     5,
	"PIN_ATTEMPT_WINDOW":   "1m",
	"S3_BUCKET":            "",
	"S3_REGION":            "us-east-1",
	"S3_ENDPOINT":          "",
	"S3_ACCESS_KEY":        "",
	"S3_SECRET_KEY":        "",
	"S3_PREFIX":            "attendance-exports",
}

// Load reads the configuration from the environment. Callers are expected to
// have loaded any .env file beforehand.
func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		GinMode:            v.GetString("GIN_MODE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		AccessTokenTTL:     v.GetDuration("ACCESS_TOKEN_EXPIRY"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		RefreshTokenTTL:    v.GetDuration("REFRESH_TOKEN_EXPIRY"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		CORSOrigin:         v.GetString("CORS_ORIGIN"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		PinMaxAttempts:     v.GetInt("PIN_MAX_ATTEMPTS"),
		PinAttemptWindow:   v.GetDuration("PIN_ATTEMPT_WINDOW"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3AccessKey:        v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:        v.GetString("S3_SECRET_KEY"),
		S3Prefix:           v.GetString("S3_PREFIX"),
	}

	// Debug runs get throwaway secrets so `go run` works without a .env.
	if cfg.GinMode == "debug" {
		if cfg.AccessTokenSecret == "" {
			cfg.AccessTokenSecret = "dev_access_secret_change_me"
		}
		if cfg.RefreshTokenSecret == "" {
			cfg.RefreshTokenSecret = "dev_refresh_secret_change_me"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret && c.GinMode != "debug" {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token expiry must be positive")
	}
	switch c.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		return errors.New("DB_DRIVER must be one of postgres, sqlite, memory")
	}
	if c.PinMaxAttempts <= 0 {
		c.PinMaxAttempts = 5
	}
	if c.PinAttemptWindow <= 0 {
		c.PinAttemptWindow = time.Minute
	}
	return nil
}
