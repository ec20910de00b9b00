package uow

import (
	"context"

	"cashflow-bridge/internal/domain/account"
	"cashflow-bridge/internal/domain/decision"
	"cashflow-bridge/internal/domain/loan"
	"cashflow-bridge/internal/domain/transaction"
)

type Repos struct {
	Accounts     account.Repository
	Transactions transaction.Repository
	Decisions    decision.Repository
	Loans        loan.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
