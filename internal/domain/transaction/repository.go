package transaction

import "context"

type Repository interface {
	// CreateBatch inserts the whole history of one account
	CreateBatch(ctx context.Context, txs []Transaction) error

	// ListByAccountID returns transactions ordered by date ascending
	ListByAccountID(ctx context.Context, accountID string) ([]Transaction, error)
}
