package infra

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"itinera/pkg/logger"
)

type Config struct {
	Port        string
	PostgresURL string
	RedisAddr   string
	JWTSecret   string
	LogLevel    string
	CORSOrigins []string

	NewRelicLicense string

	GoogleMapsAPIKey          string
	ExternalFallbackThreshold int
	ProviderTimeout           time.Duration
	ExternalSearchRadiusM     float64
	ExternalSearchLimit       int
	SearchCacheTTL            time.Duration

	ReferralTTL time.Duration
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Info("No .env file found, using process environment")
	}

	return Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDRESS"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnvWithDefault("CORS_ORIGINS", "*")),

		NewRelicLicense: os.Getenv("NEW_RELIC_LICENSE_KEY"),

		GoogleMapsAPIKey:          os.Getenv("GOOGLE_MAPS_API_KEY"),
		ExternalFallbackThreshold: getIntWithDefault("EXTERNAL_FALLBACK_THRESHOLD", 3),
		ProviderTimeout:           getDurationWithDefault("PROVIDER_TIMEOUT", 3*time.Second),
		ExternalSearchRadiusM:     float64(getIntWithDefault("EXTERNAL_SEARCH_RADIUS_M", 20000)),
		ExternalSearchLimit:       getIntWithDefault("EXTERNAL_SEARCH_LIMIT", 10),
		SearchCacheTTL:            getDurationWithDefault("SEARCH_CACHE_TTL", time.Hour),

		ReferralTTL: getDurationWithDefault("REFERRAL_TTL", 30*time.Minute),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.GetLogger().Warnf("Invalid %s=%q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		logger.GetLogger().Warnf("Invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
