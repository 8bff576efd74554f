package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-reservation/internal/config"
)

// tokenBucketScript implements a token bucket in Redis. KEYS[1] is
// the bucket key; ARGV are capacity, refill interval in milliseconds
// and the current time in milliseconds. Returns 1 when a token was
// taken, 0 when the bucket is empty.
var tokenBucketScript = redis.NewScript(`
local key      = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill   = tonumber(ARGV[2])
local now      = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(bucket[1])
local ts     = tonumber(bucket[2])

if tokens == nil then
  tokens = capacity
  ts = now
end

local elapsed = now - ts
if elapsed > 0 then
  tokens = math.min(capacity, tokens + elapsed / refill)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HMSET', key, 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', key, capacity * refill)
return allowed
`)

// RateLimit applies a per-client token bucket keyed by real IP. A nil
// client or a Redis failure lets the request through; availability
// beats strict limiting here.
func RateLimit(client *redis.Client, cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || !cfg.Enabled {
				return next(c)
			}

			key := cfg.KeyPrefix + c.RealIP()
			ctx, cancel := context.WithTimeout(c.Request().Context(), 200*time.Millisecond)
			defer cancel()

			allowed, err := tokenBucketScript.Run(ctx, client, []string{key},
				cfg.Burst, cfg.RefillPer.Milliseconds(), time.Now().UnixMilli()).Int()
			if err != nil {
				return next(c)
			}
			if allowed != 1 {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
