package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vinitha-rv/library-backend/cache"
	"github.com/vinitha-rv/library-backend/common/logger"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "X-Idempotent-Replayed"
)

type responseCapture struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header, or with no store configured, run normally.
// Only 2xx responses are stored so a failed attempt can be retried.
// Behind RequireAuth the key is scoped to the token subject as well as the route.
func Idempotency(store cache.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > 255 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key is too long."})
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if claims, ok := ClaimsFrom(c); ok {
			path += "|" + claims.Subject
		}
		ctx := c.Request.Context()

		cached, err := store.Get(ctx, key, path)
		if err != nil {
			logger.Warn(ctx, "Idempotency lookup failed", zap.Error(err))
		}
		if cached != nil {
			c.Header(IdempotentReplayHeader, "true")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		capture := &responseCapture{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = capture
		c.Next()

		status := capture.Status()
		if status < 200 || status >= 300 {
			return
		}
		resp := cache.StoredResponse{
			Status:      status,
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
			CreatedAt:   time.Now().UTC(),
		}
		if err := store.Store(ctx, key, path, resp); err != nil {
			logger.Warn(ctx, "Idempotency store failed", zap.Error(err))
		}
	}
}
