package account

import (
	"time"

	"cashflow-bridge/internal/creditengine"
	"cashflow-bridge/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

type ConnectInput struct {
	Persona      string `json:"persona" validate:"required,persona"`
	BusinessName string `json:"business_name" validate:"omitempty,max=128"`
}

type ConnectDTO struct {
	AccountID        string    `json:"account_id"`
	BusinessName     string    `json:"business_name"`
	Persona          string    `json:"persona"`
	ConnectedAt      time.Time `json:"connected_at"`
	TransactionCount int       `json:"transaction_count"`
	ConsentToken     string    `json:"consent_token"`
	ConsentExpiresAt time.Time `json:"consent_expires_at"`
}

type TransactionDTO struct {
	Date        string               `json:"date"` // YYYY-MM-DD
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	Category    transaction.Category `json:"category"`
	Type        transaction.Type     `json:"type"`
}

type CashFlowDTO struct {
	AccountID string                       `json:"account_id"`
	Months    []creditengine.MonthlyFlow   `json:"months"`
	Summary   creditengine.CashFlowSummary `json:"summary"`
}

func toTransactionDTO(t transaction.Transaction) TransactionDTO {
	return TransactionDTO{
		Date:        t.Date.Format("2006-01-02"),
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
	}
}
