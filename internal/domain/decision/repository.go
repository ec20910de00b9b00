package decision

import "context"

type Repository interface {
	Create(ctx context.Context, r *Record) error
	// Latest decision for an account, gorm.ErrRecordNotFound if none
	GetLatestByAccountID(ctx context.Context, accountID string) (*Record, error)
}
