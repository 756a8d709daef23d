package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	// Autosave configuration
	AutosaveDebounce time.Duration
	// AI configuration
	AnthropicAPIKey string
	DefaultModel    string
	// Object storage configuration
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StoragePublicURL string
	StorageUseSSL    bool
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,
		// Autosave configuration
		AutosaveDebounce: getDurationMS("AUTOSAVE_DEBOUNCE_MS", 1500*time.Millisecond),
		// AI configuration
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:    getEnv("DEFAULT_MODEL", "claude-haiku-4-5-20251001"),
		// Object storage configuration
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "inkwell-assets"),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationMS reads a positive millisecond count from the environment
func getDurationMS(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms <= 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
