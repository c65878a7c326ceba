package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	StoragePath          string
	GeoIPDBPath          string
	DefaultLocale        string
	AllowedOrigins       []string
	MaxUploadBytes       int64
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	UpstreamTimeout      time.Duration
	LogUpstreamResponses bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// GEMINI_API_KEY may be empty: callers can supply a key per request instead.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		StoragePath:          os.Getenv("STORAGE_PATH"),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "en"),
		AllowedOrigins:       splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		UpstreamTimeout:      time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 90)),
		LogUpstreamResponses: getEnvBool("LOG_UPSTREAM_RESPONSES", false),
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
