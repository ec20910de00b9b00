package decision

import (
	"time"

	"cashflow-bridge/internal/creditengine"
)

// DecisionDTO is the engine outcome plus the identifiers the service assigned.
type DecisionDTO struct {
	DecisionID string `json:"decisionId"`
	AccountID  string `json:"accountId"`
	OfferID    string `json:"offerId,omitempty"`
	creditengine.Decision
}

type OfferDTO struct {
	OfferID   string                   `json:"offer_id"`
	AccountID string                   `json:"account_id"`
	Offer     creditengine.CreditOffer `json:"offer"`
	ExpiresAt time.Time                `json:"expires_at"`
}

type RecordDTO struct {
	DecisionID      string    `json:"decision_id"`
	Approved        bool      `json:"approved"`
	Reason          string    `json:"reason,omitempty"`
	OfferID         string    `json:"offer_id,omitempty"`
	LoanAmount      float64   `json:"loan_amount,omitempty"`
	RiskScore       int       `json:"risk_score,omitempty"`
	ReferralPartner string    `json:"referral_partner,omitempty"`
	DecidedAt       time.Time `json:"decided_at"`
}
