package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig describes one token-bucket profile.  Booking
// creation and admin login are limited independently, each with its
// own env prefix, so customer traffic never starves the admin path.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadBookingRateLimit returns the limiter profile for customer
// booking creation: 20 requests with one token refilled every three
// seconds by default (roughly 20/minute), keyed by client IP.
func LoadBookingRateLimit() RateLimitConfig {
	return loadRateLimit("BOOKING", 20, 3*time.Second, "rl:booking")
}

// LoadAdminRateLimit returns the limiter profile for admin login
// attempts: 5 requests with one token refilled every twelve seconds by
// default (roughly 5/minute), keyed by client IP.
func LoadAdminRateLimit() RateLimitConfig {
	return loadRateLimit("ADMIN", 5, 12*time.Second, "rl:admin")
}

func loadRateLimit(envPrefix string, capacity int, interval time.Duration, keyPrefix string) RateLimitConfig {
	def := RateLimitConfig{
		Enabled:        envBool(envPrefix+"_RATE_LIMIT_ENABLED", true),
		Capacity:       envInt(envPrefix+"_RATE_LIMIT_CAPACITY", capacity),
		RefillTokens:   envInt(envPrefix+"_RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur(envPrefix+"_RATE_LIMIT_REFILL_INTERVAL", interval),
		TTL:            envDur(envPrefix+"_RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr(envPrefix+"_RATE_LIMIT_KEY_STRATEGY", "ip"),
		Prefix:         envStr(envPrefix+"_RATE_LIMIT_PREFIX", keyPrefix),
		Debug:          envBool(envPrefix+"_RATE_LIMIT_DEBUG", false),
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.RefillTokens < 1 {
		def.RefillTokens = 1
	}
	if def.RefillInterval <= 0 {
		def.RefillInterval = time.Second
	}
	minTTL := 5 * def.RefillInterval
	if def.TTL < minTTL {
		def.TTL = minTTL
	}
	return def
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
