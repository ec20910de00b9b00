// Package memstore is an in-process offer store for single-instance runs and tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"cashflow-bridge/internal/domain/offer"
)

var _ offer.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	offers map[string]offer.Offer
}

func New() *Store {
	return &Store{offers: make(map[string]offer.Offer)}
}

func (s *Store) Get(_ context.Context, offerID string) (*offer.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[offerID]
	if !ok {
		return nil, offer.ErrNotFound
	}
	return &o, nil
}

func (s *Store) Set(_ context.Context, o *offer.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.OfferID] = *o
	return nil
}

func (s *Store) Delete(_ context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.offers, offerID)
	return nil
}

func (s *Store) SweepExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, o := range s.offers {
		if o.Expired(now) {
			delete(s.offers, id)
			n++
		}
	}
	return n, nil
}

// Len reports how many offers are held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.offers)
}
