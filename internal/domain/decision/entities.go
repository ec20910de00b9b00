package decision

import "time"

// Table: decisions. Append-only audit trail of engine outcomes.
type Record struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	DecisionID      string    `gorm:"size:32;uniqueIndex:ux_decisions_decision_id" json:"decision_id"`
	AccountID       string    `gorm:"size:32;not null;index:idx_decisions_account" json:"account_id"`
	Approved        bool      `gorm:"not null" json:"approved"`
	Reason          string    `gorm:"size:128" json:"reason,omitempty"`
	OfferID         string    `gorm:"size:32" json:"offer_id,omitempty"`
	LoanAmount      float64   `gorm:"type:decimal(18,2)" json:"loan_amount,omitempty"`
	RiskScore       int       `json:"risk_score,omitempty"`
	ReferralPartner string    `gorm:"size:128" json:"referral_partner,omitempty"`
	AverageIncome   float64   `gorm:"type:decimal(18,2)" json:"average_income"`
	Volatility      float64   `json:"volatility"`
	DecidedAt       time.Time `gorm:"not null" json:"decided_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Record) TableName() string { return "decisions" }
