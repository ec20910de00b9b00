package offermock

import (
	"context"
	"time"

	domain "cashflow-bridge/internal/domain/offer"
)

var _ domain.Store = (*Store)(nil)

// Store is a function-backed mock that satisfies offer.Store.
// Unset Get returns offer.ErrNotFound; unset writers succeed.
type Store struct {
	GetFn          func(ctx context.Context, offerID string) (*domain.Offer, error)
	SetFn          func(ctx context.Context, o *domain.Offer) error
	DeleteFn       func(ctx context.Context, offerID string) error
	SweepExpiredFn func(ctx context.Context, now time.Time) (int, error)
}

func (m *Store) Get(ctx context.Context, offerID string) (*domain.Offer, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, offerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Store) Set(ctx context.Context, o *domain.Offer) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, o)
	}
	return nil
}

func (m *Store) Delete(ctx context.Context, offerID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, offerID)
	}
	return nil
}

func (m *Store) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	if m.SweepExpiredFn != nil {
		return m.SweepExpiredFn(ctx, now)
	}
	return 0, nil
}
