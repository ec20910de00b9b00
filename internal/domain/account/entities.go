package account

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("account not found")

// Table: accounts. One row per simulated bank connection.
type Account struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	AccountID    string         `gorm:"size:32;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	BusinessName string         `gorm:"size:128" json:"business_name"`
	Persona      string         `gorm:"size:32;not null" json:"persona"`
	ConnectedAt  time.Time      `gorm:"not null" json:"connected_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }
