// Package redisstore keeps issued offers in redis: one JSON key per offer plus
// a sorted set scored by expiry so sweeps never need SCAN.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cashflow-bridge/internal/domain/offer"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "offer:"
	expiryKey = "offers:expiry"
)

var _ offer.Store = (*Store)(nil)

type Store struct {
	rdb *redis.Client
	// expired offers stay readable this long so callers can tell expired from unknown
	grace time.Duration
	now   func() time.Time
}

func New(rdb *redis.Client, grace time.Duration) *Store {
	return &Store{rdb: rdb, grace: grace, now: time.Now}
}

// WithClock sets the time source used for key TTLs; pass the same clock as the decision usecase.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func offerKey(id string) string { return keyPrefix + id }

func (s *Store) Get(ctx context.Context, offerID string) (*offer.Offer, error) {
	raw, err := s.rdb.Get(ctx, offerKey(offerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, offer.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var o offer.Offer
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("decode offer %s: %w", offerID, err)
	}
	return &o, nil
}

func (s *Store) Set(ctx context.Context, o *offer.Offer) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	ttl := o.TTL(s.now()) + s.grace
	if ttl <= 0 {
		return offer.ErrExpired
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, offerKey(o.OfferID), raw, ttl)
		p.ZAdd(ctx, expiryKey, redis.Z{Score: float64(o.ExpiresAt.UnixMilli()), Member: o.OfferID})
		return nil
	})
	return err
}

func (s *Store) Delete(ctx context.Context, offerID string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, offerKey(offerID))
		p.ZRem(ctx, expiryKey, offerID)
		return nil
	})
	return err
}

func (s *Store) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.rdb.ZRangeByScore(ctx, expiryKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = offerKey(id)
		members[i] = id
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		p.ZRem(ctx, expiryKey, members...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
