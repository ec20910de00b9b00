package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidTransaction = errors.New("transaction type does not match amount sign")

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

type Category string

const (
	CategoryIncome    Category = "income"
	CategoryRent      Category = "rent"
	CategorySupplies  Category = "supplies"
	CategoryUtilities Category = "utilities"
	CategoryOther     Category = "other"
)

// Table: transactions. Amount is signed: positive income, negative expense.
type Transaction struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID   string          `gorm:"size:32;not null;index:idx_transactions_account_date" json:"account_id"`
	Date        time.Time       `gorm:"type:date;not null;index:idx_transactions_account_date" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	Category    Category        `gorm:"size:16" json:"category"`
	Type        Type            `gorm:"size:8;not null" json:"type"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }

// Validate checks that Type and the sign of Amount agree.
func (t Transaction) Validate() error {
	switch t.Type {
	case TypeIncome:
		if t.Amount.IsNegative() {
			return ErrInvalidTransaction
		}
	case TypeExpense:
		if t.Amount.IsPositive() {
			return ErrInvalidTransaction
		}
	default:
		return ErrInvalidTransaction
	}
	return nil
}

// MonthKey returns the YYYY-MM bucket the transaction falls in.
func (t Transaction) MonthKey() string { return t.Date.Format("2006-01") }
