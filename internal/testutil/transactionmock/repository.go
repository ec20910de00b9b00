package transactionmock

import (
	"context"

	domain "cashflow-bridge/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies transaction.Repository.
type Repo struct {
	CreateBatchFn     func(ctx context.Context, txs []domain.Transaction) error
	ListByAccountIDFn func(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

func (m *Repo) CreateBatch(ctx context.Context, txs []domain.Transaction) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, txs)
	}
	return nil
}

func (m *Repo) ListByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if m.ListByAccountIDFn != nil {
		return m.ListByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}
