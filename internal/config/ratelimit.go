package config

import "time"

// RateLimitConfig controls the Redis token-bucket limiter applied to
// booking and auth endpoints.
type RateLimitConfig struct {
	Enabled   bool
	Burst     int           // bucket capacity
	RefillPer time.Duration // time to refill one token
	KeyPrefix string
}

// LoadRateLimitConfig reads RATELIMIT_* environment variables with
// defaults tuned for a single public-facing instance.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:   envBool("RATELIMIT_ENABLED", true),
		Burst:     envInt("RATELIMIT_BURST", 20),
		RefillPer: envDur("RATELIMIT_REFILL_PER", 500*time.Millisecond),
		KeyPrefix: getenv("RATELIMIT_KEY_PREFIX", "ratelimit:"),
	}
}
