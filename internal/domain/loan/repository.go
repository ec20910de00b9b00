package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Lock the loan row for the rest of the transaction
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByOfferID(ctx context.Context, offerID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
