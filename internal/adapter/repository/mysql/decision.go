package mysql

import (
	"context"

	decisionDomain "cashflow-bridge/internal/domain/decision"

	"gorm.io/gorm"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, rec *decisionDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *DecisionRepository) GetLatestByAccountID(ctx context.Context, accountID string) (*decisionDomain.Record, error) {
	var out decisionDomain.Record
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("decided_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
