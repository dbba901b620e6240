package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader lets clients retry unsafe requests without repeating their effect
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader is set on responses served from the idempotency store
	IdempotentReplayHeader = "Idempotent-Replayed"

	idempotencyPrefix = "payments:idempotency:"
	inProgressMarker  = "__in_progress__"
	storeTimeout      = 2 * time.Second
	maxKeyLength      = 255
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of an unsafe request whose
// Idempotency-Key was already seen on the same path. Requests without the
// header pass through untouched. Server errors are not stored, so such a
// request may be retried with the same key.
func Idempotency(cache redis.Cmdable, ttl time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxKeyLength {
			abortWithError(c, http.StatusBadRequest, "BAD_REQUEST", "Idempotency-Key is too long")
			return
		}

		cacheKey := idempotencyPrefix + c.Request.URL.Path + ":" + key
		log := logger.With("idempotency_key", key)

		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		cached, err := cache.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			replay(c, cached, log)
			return
		case !errors.Is(err, redis.Nil):
			log.Error("Idempotency lookup failed", "error", err)
			abortWithError(c, http.StatusServiceUnavailable, "IDEMPOTENCY_UNAVAILABLE", "Idempotency store unavailable")
			return
		}

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			log.Error("Idempotency reservation failed", "error", err)
			abortWithError(c, http.StatusServiceUnavailable, "IDEMPOTENCY_UNAVAILABLE", "Idempotency store unavailable")
			return
		}
		if !reserved {
			abortWithError(c, http.StatusConflict, "CONFLICT", "A request with this Idempotency-Key is in progress")
			return
		}

		capture := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = capture
		c.Next()

		persistCtx, persistCancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), storeTimeout)
		defer persistCancel()

		status := capture.Status()
		if status >= http.StatusInternalServerError {
			cache.Del(persistCtx, cacheKey)
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
		})
		if err == nil {
			err = cache.Set(persistCtx, cacheKey, payload, ttl).Err()
		}
		if err != nil {
			log.Error("Failed to persist idempotent response", "error", err)
			cache.Del(persistCtx, cacheKey)
		}
	}
}

func replay(c *gin.Context, cached []byte, log *slog.Logger) {
	if string(cached) == inProgressMarker {
		abortWithError(c, http.StatusConflict, "CONFLICT", "A request with this Idempotency-Key is in progress")
		return
	}

	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil {
		log.Warn("Failed to decode stored idempotent response", "error", err)
		abortWithError(c, http.StatusConflict, "CONFLICT", "Duplicate request")
		return
	}

	c.Header(IdempotentReplayHeader, "true")
	c.Data(stored.Status, stored.ContentType, stored.Body)
	c.Abort()
}

func abortWithError(c *gin.Context, status int, code, message string) {
	response := gin.H{"error": gin.H{"code": code, "message": message}}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(status, response)
}
