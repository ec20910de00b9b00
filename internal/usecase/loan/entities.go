package loan

import (
	"time"

	domain "cashflow-bridge/internal/domain/loan"
)

type SignInput struct {
	LoanID      string
	SignerName  string
	SignerEmail string
	SignedDate  time.Time
}

type DisburseInput struct {
	LoanID string
	IBAN   string
}

type LoanDTO struct {
	LoanID             string     `json:"loan_id"`
	OfferID            string     `json:"offer_id"`
	AccountID          string     `json:"account_id"`
	Amount             float64    `json:"amount"`
	WeeklyInterestRate float64    `json:"weekly_interest_rate"`
	TotalWeeklyPayment float64    `json:"total_weekly_payment"`
	RenewalDate        string     `json:"renewal_date"`
	State              string     `json:"state"`
	SignerName         string     `json:"signer_name,omitempty"`
	SignedDate         *time.Time `json:"signed_date,omitempty"`
	PayoutIBAN         string     `json:"payout_iban,omitempty"`
	StateUpdatedAt     time.Time  `json:"state_updated_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:             l.LoanID,
		OfferID:            l.OfferID,
		AccountID:          l.AccountID,
		Amount:             l.Amount,
		WeeklyInterestRate: l.WeeklyInterestRate,
		TotalWeeklyPayment: l.TotalWeeklyPayment,
		RenewalDate:        l.RenewalDate.Format("2006-01-02"),
		State:              string(l.State),
		SignerName:         l.SignerName,
		SignedDate:         l.SignedDate,
		PayoutIBAN:         l.PayoutIBAN,
		StateUpdatedAt:     l.StateUpdatedAt,
	}
}
