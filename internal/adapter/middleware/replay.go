package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cashflow-bridge/pkg/id"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// replayEntry is what one idempotency key resolves to. Pending entries
// belong to a request that is still running.
type replayEntry struct {
	Pending   bool      `json:"pending"`
	Status    int       `json:"status,omitempty"`
	Body      []byte    `json:"body,omitempty"`
	Digest    string    `json:"digest"`
	RequestAt time.Time `json:"request_at"`
	StoredAt  time.Time `json:"stored_at"`
}

func (e replayEntry) replayable() bool { return !e.Pending && e.Status != 0 }

// replayStore keeps entries under idemp:<method>:<path>:<key>. The path
// carries the account or offer id, so one key cannot hit two resources.
type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func replayKey(method, path, key string) string {
	return "idemp:" + strings.ToLower(method) + ":" + path + ":" + key
}

// reserve claims key for a new request. false means an entry already exists.
func (s replayStore) reserve(ctx context.Context, key string, e replayEntry) (bool, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, raw, pendingTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, fmt.Errorf("decode %s: %w", key, err)
	}
	return e, nil
}

// complete replaces the pending entry with the final response for the replay window.
func (s replayStore) complete(ctx context.Context, key string, e replayEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, s.ttl).Err()
}

func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// validKey accepts a 32-hex id, the format every id in this service uses,
// or a canonical lowercase UUID v4.
func validKey(k string) bool {
	if id.Valid(k) {
		return true
	}
	if len(k) != 36 || k != strings.ToLower(k) {
		return false
	}
	u, err := uuid.Parse(k)
	return err == nil && u.Version() == 4 && u.Variant() == uuid.RFC4122
}

// values above this are epoch milliseconds
const epochMillisFloor = 1e12

// parseRequestAt reads epoch seconds, epoch milliseconds or RFC3339 with a
// zone. Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > epochMillisFloor {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New(HeaderRequestAt + " must be epoch seconds, epoch millis or RFC3339 with zone")
	}
	return t.UTC(), nil
}
