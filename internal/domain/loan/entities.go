package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrAlreadyAccepted   = errors.New("offer already accepted")
	ErrAlreadySigned     = errors.New("loan already signed")
	ErrInvalidTransition = errors.New("loan not in a state that allows this action")
)

type State string

const (
	StateAccepted  State = "accepted"
	StateSigned    State = "signed"
	StateDisbursed State = "disbursed"
)

// Table: loans. A weekly credit line opened from an accepted offer.
type Loan struct {
	ID                 uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID             string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	OfferID            string         `gorm:"size:32;uniqueIndex:ux_loans_offer_id" json:"offer_id"`
	AccountID          string         `gorm:"size:32;index:idx_loans_account" json:"account_id"`
	Amount             float64        `gorm:"type:decimal(18,2)" json:"amount"`
	WeeklyInterestRate float64        `gorm:"type:decimal(6,4)" json:"weekly_interest_rate"`
	TotalWeeklyPayment float64        `gorm:"type:decimal(18,2)" json:"total_weekly_payment"`
	RenewalDate        time.Time      `gorm:"type:date" json:"renewal_date"`
	State              State          `gorm:"size:16;default:'accepted'" json:"state"`
	SignerName         string         `gorm:"size:128" json:"signer_name,omitempty"`
	SignerEmail        string         `gorm:"size:255" json:"signer_email,omitempty"`
	SignedDate         *time.Time     `gorm:"type:date" json:"signed_date,omitempty"`
	PayoutIBAN         string         `gorm:"size:34" json:"payout_iban,omitempty"`
	StateUpdatedAt     time.Time      `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }
