package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate limit for one method and path rule.
type EndpointConfig struct {
	Path   string        // see MatchEndpoint for the pattern syntax
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity; 0 means Limit
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(
			getEnvInt("RATE_LIMIT_AI_LIMIT", 60),
			getEnvDuration("RATE_LIMIT_AI_WINDOW", time.Hour),
		),
	}
}

// DefaultEndpointConfigs returns the built-in rules. aiLimit per aiWindow applies
// to every model-backed endpoint.
func DefaultEndpointConfigs(aiLimit int, aiWindow time.Duration) []EndpointConfig {
	aiBurst := max(1, aiLimit/6)

	return []EndpointConfig{
		// Tier 1: model calls and PDF compilation
		{Path: "/ai/", Method: "POST", Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/resumes/*/export", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/resumes/*/export.pdf", Method: "GET", Limit: 60, Window: time.Hour, Burst: 10},

		// Tier 2: writes
		{Path: "/users", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/resumes", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Drafts arrive every couple of seconds while a user types
		{Path: "/resumes/*/draft", Method: "PUT", Limit: 600, Window: time.Minute, Burst: 60},

		// Reads use the default limit; GET /health is never limited
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of client addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
