package offer

import (
	"errors"
	"time"

	"cashflow-bridge/internal/creditengine"
)

var (
	ErrNotFound = errors.New("offer not found")
	ErrExpired  = errors.New("offer expired")
)

// Offer is a CreditOffer issued to one account. It lives only in the offer store.
type Offer struct {
	OfferID   string                   `json:"offer_id"`
	AccountID string                   `json:"account_id"`
	Credit    creditengine.CreditOffer `json:"credit"`
	CreatedAt time.Time                `json:"created_at"`
	ExpiresAt time.Time                `json:"expires_at"`
}

// Expired reports whether the validity window has passed at now.
func (o *Offer) Expired(now time.Time) bool { return !now.Before(o.ExpiresAt) }

// TTL is the remaining lifetime at now, never negative.
func (o *Offer) TTL(now time.Time) time.Duration {
	if d := o.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
