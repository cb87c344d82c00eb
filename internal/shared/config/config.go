package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGeminiModel   = "gemini-2.5-flash-preview-05-20"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	AuthAPIKey = "api_key"
	AuthOAuth  = "oauth"
)

// Config holds application configuration shared by the relay and screener binaries.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// Relay
	GeminiAPIKey    string
	GeminiAuth      string
	GeminiModel     string
	GeminiBaseURL   string
	UpstreamTimeout time.Duration
	StaticDir       string
	RateLimitRPS    float64
	RateLimitBurst  int

	// Screener
	ScreenerPort   string
	RelayURL       string
	RelayTimeout   time.Duration
	MaxUploadBytes int64
	SessionTTL     time.Duration
	MaxSessions    int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "3001"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiAuth:      normalizeAuth(getEnv("GEMINI_AUTH", AuthAPIKey)),
		GeminiModel:     getEnv("GEMINI_MODEL", defaultGeminiModel),
		GeminiBaseURL:   strings.TrimRight(getEnv("GEMINI_BASE_URL", defaultGeminiBaseURL), "/"),
		UpstreamTimeout: getEnvSeconds("UPSTREAM_TIMEOUT_SECONDS", 120*time.Second),
		StaticDir:       getEnv("STATIC_DIR", "build"),
		RateLimitRPS:    getEnvFloat("RELAY_RATE_LIMIT_RPS", 0),
		RateLimitBurst:  getEnvInt("RELAY_RATE_LIMIT_BURST", 0),
		ScreenerPort:    getEnv("SCREENER_PORT", "3002"),
		RelayURL:        getEnv("RELAY_URL", "http://localhost:3001/api/gemini"),
		RelayTimeout:    getEnvSeconds("RELAY_TIMEOUT_SECONDS", 180*time.Second),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 25<<20)),
		SessionTTL:      getEnvMinutes("SESSION_TTL_MINUTES", 120*time.Minute),
		MaxSessions:     getEnvInt("MAX_SESSIONS", 1000),
	}
}

// GenerateContentURL returns the upstream generateContent endpoint for the configured model.
func (c Config) GenerateContentURL() string {
	return c.GeminiBaseURL + "/models/" + c.GeminiModel + ":generateContent"
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if parsed, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return parsed
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if parsed, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return parsed
	}
	return def
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	if parsed := getEnvInt(key, 0); parsed > 0 {
		return time.Duration(parsed) * time.Second
	}
	return def
}

func getEnvMinutes(key string, def time.Duration) time.Duration {
	if parsed := getEnvInt(key, 0); parsed > 0 {
		return time.Duration(parsed) * time.Minute
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func normalizeAuth(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "oauth", "adc":
		return AuthOAuth
	default:
		return AuthAPIKey
	}
}
