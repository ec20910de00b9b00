package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"
	HeaderReplayed       = "Idempotent-Replayed"

	// a pending entry outlives a stuck handler by at most this long
	pendingTTL   = 60 * time.Second
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// captureWriter tees the response so it can be stored for replay.
type captureWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency makes mutating requests safe to retry. A repeated
// Idempotency-Key on the same method and path replays the stored response;
// reusing it with another body, or while the first request runs, is a 409.
// Server errors are not stored so the client can retry with the same key.
func Idempotency(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			key := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if key == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderIdempotencyKey})
			}
			if !validKey(key) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderIdempotencyKey + " format"})
			}
			at, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := time.Now().UTC()
			if skew := now.Sub(at); skew > maxClockSkew || skew < -maxClockSkew {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			sum := digest(body)

			rkey := replayKey(req.Method, req.URL.Path, key)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			fresh, err := store.reserve(ctx, rkey, replayEntry{Pending: true, Digest: sum, RequestAt: at, StoredAt: now})
			if err != nil {
				log.WithError(err).Error("idempotency store unavailable")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !fresh {
				prev, err := store.load(ctx, rkey)
				if err != nil && !errors.Is(err, redis.Nil) {
					log.WithError(err).WithField("key", rkey).Warn("idempotency entry unreadable")
				}
				switch {
				case prev.Digest != "" && prev.Digest != sum:
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderIdempotencyKey + " reused with a different body"})
				case prev.replayable():
					c.Response().Header().Set(HeaderReplayed, "true")
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				default:
					return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
				}
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			done, cancelDone := context.WithTimeout(context.Background(), storeTimeout)
			defer cancelDone()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(done, rkey); err != nil {
					log.WithError(err).WithField("key", rkey).Warn("idempotency entry not released")
				}
				return nil
			}
			final := replayEntry{Status: w.status, Body: w.body.Bytes(), Digest: sum, RequestAt: at, StoredAt: time.Now().UTC()}
			if err := store.complete(done, rkey, final); err != nil {
				log.WithError(err).WithField("key", rkey).Warn("idempotent response not stored")
			}
			return nil
		}
	}
}
