package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	TablePrefix     string
	CORSOrigins     string
	SupabaseURL     string
	SupabaseJWKSURL string // SupabaseURL + /auth/v1/.well-known/jwks.json
	AuthDisabled    bool
	// Cache
	CacheBackend string // "memory" or "redis"
	RedisURL     string
	RedisPrefix  string
	CacheTTL     time.Duration
	CacheResetID string // shared secret for POST /api/cache/reset
	// LLM
	LLMProvider     string // "anthropic" or "lorem"
	AnthropicAPIKey string
	LLMModel        string
	SearchMaxTokens int
	// Logging
	LogDir      string
	LogMaxFiles int
	// DefaultCompany is a JSON company record created at startup when its
	// CNPJ is not registered yet
	DefaultCompany string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	var jwksURL string
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TablePrefix:     getTablePrefix(env),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		SupabaseURL:     supabaseURL,
		SupabaseJWKSURL: jwksURL,
		AuthDisabled:    getBool("AUTH_DISABLED", false),
		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:     getEnv("REDIS_PREFIX", "resumebank:"+env+":"),
		CacheTTL:        time.Duration(getInt("CACHE_TTL_SECONDS", DefaultCacheTTLSeconds)) * time.Second,
		CacheResetID:    getEnv("CACHE_RESET_ID", ""),
		LLMProvider:     getEnv("LLM_PROVIDER", getDefaultProvider(env)),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		LLMModel:        getEnv("LLM_MODEL", "claude-haiku-4-5-20251001"),
		SearchMaxTokens: getInt("SEARCH_MAX_TOKENS", DefaultSearchMaxTokens),
		LogDir:          getEnv("LOG_DIR", ""),
		LogMaxFiles:     getInt("LOG_MAX_FILES", 10),
		DefaultCompany:  getEnv("DEFAULT_COMPANY", ""),
	}
}

// IsProduction reports whether destructive tooling must be refused
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// Validate rejects configurations the server must not start with.
// Authentication is only ever off when AUTH_DISABLED says so, and never in prod.
func (c *Config) Validate() error {
	if c.AuthDisabled {
		if c.IsProduction() {
			return errors.New("AUTH_DISABLED is not allowed in prod")
		}
		return nil
	}
	if c.SupabaseJWKSURL == "" {
		return errors.New("SUPABASE_URL is required unless AUTH_DISABLED=true")
	}
	return nil
}

// getDefaultProvider picks the offline provider outside production
func getDefaultProvider(env string) string {
	if env == "prod" {
		return "anthropic"
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return "anthropic"
	}
	return "lorem"
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

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
