package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-reservation/internal/config"
)

// cachedResponse is the JSON envelope stored in Redis for a cached
// response body.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter tees the handler's response into a buffer so it can
// be stored after the request completes.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache serves public GET responses from Redis. Only 200
// responses are cached; anything else passes through untouched. A nil
// client disables the middleware.
func ResponseCache(client *redis.Client, cfg config.CacheConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil || !cfg.Enabled || c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := cfg.KeyPrefix + c.Request().URL.RequestURI()
			ctx, cancel := context.WithTimeout(c.Request().Context(), 200*time.Millisecond)
			defer cancel()

			if raw, err := client.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
					c.Response().Header().Set(echo.HeaderContentType, cached.ContentType)
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(cached.Status, cached.ContentType, cached.Body)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				entry := cachedResponse{
					Status:      cw.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        cw.buf.Bytes(),
				}
				if raw, err := json.Marshal(entry); err == nil {
					// Best effort; a failed store only costs a cache miss.
					client.Set(context.Background(), key, raw, cfg.TTL)
				}
			}
			return nil
		}
	}
}
