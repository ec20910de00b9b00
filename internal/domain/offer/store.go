package offer

import (
	"context"
	"time"
)

// Store holds issued offers until they are accepted or expire.
type Store interface {
	// Get returns ErrNotFound when the offer is unknown or already removed
	Get(ctx context.Context, offerID string) (*Offer, error)
	Set(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, offerID string) error
	// SweepExpired drops every offer whose ExpiresAt is not after now and reports how many
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
