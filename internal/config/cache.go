package config

import "time"

// CacheConfig controls the Redis response cache applied to public
// read endpoints.
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	KeyPrefix string
}

// LoadCacheConfig reads CACHE_* environment variables with sensible
// defaults for local development.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:   envBool("CACHE_ENABLED", true),
		TTL:       envDur("CACHE_TTL", 30*time.Second),
		KeyPrefix: getenv("CACHE_KEY_PREFIX", "rescache:"),
	}
}
