package config

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_* environment
// variables and verifies connectivity with a short ping. It returns
// nil when Redis is unreachable so callers can run without caching
// and rate limiting rather than refuse to start.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "")
	if addr == "" {
		host := getenv("REDIS_HOST", "localhost")
		port := getenv("REDIS_PORT", "6379")
		addr = net.JoinHostPort(host, port)
	}

	opts := &redis.Options{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] unreachable at %s, continuing without it: %v", addr, err)
		_ = client.Close()
		return nil
	}
	log.Printf("[redis] connected to %s", addr)
	return client
}
