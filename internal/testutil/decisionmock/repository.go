package decisionmock

import (
	"context"

	domain "cashflow-bridge/internal/domain/decision"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies decision.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, r *domain.Record) error
	GetLatestByAccountIDFn func(ctx context.Context, accountID string) (*domain.Record, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetLatestByAccountID(ctx context.Context, accountID string) (*domain.Record, error) {
	if m.GetLatestByAccountIDFn != nil {
		return m.GetLatestByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}
