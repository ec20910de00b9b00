package mysql

import (
	"context"

	txDomain "cashflow-bridge/internal/domain/transaction"

	"gorm.io/gorm"
)

// a 90 day history is a few hundred rows; keep statements well under placeholder limits
const insertBatchSize = 200

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, txs []txDomain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&txs, insertBatchSize).Error
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]txDomain.Transaction, error) {
	var out []txDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date ASC, id ASC").
		Find(&out)
	return out, res.Error
}
