package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr           string
	CORSAllowedOrigins []string
	DatabaseURL        string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBAutoMigrate      bool
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisPrefix        string
	StatusMirrorTTL    time.Duration
	S3Region           string
	AWSS3AccessKey     string
	AWSS3SecretKey     string
	S3Endpoint         string
	S3UsePathStyle     bool
	S3PresignTTL       time.Duration
	JWTSecret          string
	JWTIssuer          string
	JWTClockSkew       time.Duration
	LogLevel           string
	LogFile            string
	SentryDSN          string
	SentryEnvironment  string
}

func Load() *Config {
	return &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		DatabaseURL:        buildDatabaseURL(),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:     getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBAutoMigrate:      getEnvBool("DB_AUTO_MIGRATE", true),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPrefix:        getEnv("REDIS_PREFIX", ""),
		StatusMirrorTTL:    getEnvDuration("STATUS_MIRROR_TTL", 24*time.Hour),
		// Prefer unified S3_* vars, fall back to legacy AWS_* vars for compatibility
		S3Region:          getEnvWithFallback("S3_REGION", "AWS_DEFAULT_REGION", "us-east-1"),
		AWSS3AccessKey:    getEnvWithFallback("S3_KEY", "AWS_ACCESS_KEY_ID", ""),
		AWSS3SecretKey:    getEnvWithFallback("S3_SECRET", "AWS_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE_ENDPOINT", false),
		S3PresignTTL:      getEnvDuration("S3_PRESIGN_TTL", 15*time.Minute),
		JWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
		JWTIssuer:         getEnv("AUTH_JWT_ISSUER", ""),
		JWTClockSkew:      getEnvDuration("AUTH_CLOCK_SKEW", 30*time.Second),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),
	}
}

// S3Enabled reports whether output links can be signed.
func (c *Config) S3Enabled() bool {
	return c.AWSS3AccessKey != "" && c.AWSS3SecretKey != ""
}

func buildDatabaseURL() string {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_DATABASE", "conversions")
	dbUser := getEnv("DB_USERNAME", "conversions")
	dbPassword := getEnv("DB_PASSWORD", "")
	dbSSLMode := getEnv("DB_SSLMODE", "disable")

	// lib/pq supports "key=value" connection strings and this avoids
	// URI escaping issues for special characters in passwords.
	dbURL := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s sslmode=%s",
		dbHost, dbPort, dbName, dbUser, dbSSLMode,
	)
	if dbPassword != "" {
		dbURL += fmt.Sprintf(" password=%s", dbPassword)
	}

	if v := getEnv("DB_SSLCERT", ""); v != "" {
		dbURL += fmt.Sprintf(" sslcert=%s", v)
	}
	if v := getEnv("DB_SSLKEY", ""); v != "" {
		dbURL += fmt.Sprintf(" sslkey=%s", v)
	}
	if v := getEnv("DB_SSLROOTCERT", ""); v != "" {
		dbURL += fmt.Sprintf(" sslrootcert=%s", v)
	}
	return dbURL
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvWithFallback(primaryKey, secondaryKey, fallback string) string {
	if value := os.Getenv(primaryKey); value != "" {
		return value
	}
	if value := os.Getenv(secondaryKey); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "24h") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
