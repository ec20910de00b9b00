package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	accountDomain "cashflow-bridge/internal/domain/account"
	loanDomain "cashflow-bridge/internal/domain/loan"
	txDomain "cashflow-bridge/internal/domain/transaction"
	"cashflow-bridge/internal/domain/uow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func makeAccount(accountID string) *accountDomain.Account {
	return &accountDomain.Account{AccountID: accountID, BusinessName: "Bäckerei Kurz", Persona: "monthly_spike", ConnectedAt: time.Now().UTC()}
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	const acc = "d4d4d4d4d4d4d4d4d4d4d4d4d4d4d4d4"
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Accounts.Create(ctx, makeAccount(acc)); err != nil {
			return err
		}
		return r.Transactions.CreateBatch(ctx, []txDomain.Transaction{
			{AccountID: acc, Date: day(8, 1), Amount: decimal.NewFromInt(3000), Category: txDomain.CategoryIncome, Type: txDomain.TypeIncome},
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewAccountRepository(db).GetByAccountID(ctx, acc); err != nil {
		t.Fatalf("account not visible after commit: %v", err)
	}
	txs, err := NewTransactionRepository(db).ListByAccountID(ctx, acc)
	if err != nil || len(txs) != 1 {
		t.Fatalf("transactions after commit = %v, %v", txs, err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	const acc = "e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5"
	sentinel := errors.New("boom")

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Accounts.Create(ctx, makeAccount(acc)); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if _, err := NewAccountRepository(db).GetByAccountID(ctx, acc); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected account not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	if err := loanRepo.Create(ctx, makeLoan("LN-TARGET", "OF-TARGET")); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	err := guow.WithinLoanTx(ctx, "LN-TARGET", func(r uow.Repos, l *loanDomain.Loan) error {
		if l == nil || l.LoanID != "LN-TARGET" || l.State != loanDomain.StateAccepted {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		l.State = loanDomain.StateSigned
		l.StateUpdatedAt = time.Now().UTC()
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := loanRepo.GetByLoanID(ctx, "LN-TARGET")
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.State != loanDomain.StateSigned {
		t.Fatalf("loan state not updated, got=%s", got.State)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	if err := loanRepo.Create(ctx, makeLoan("LN-RB", "OF-RB")); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, "LN-RB", func(r uow.Repos, l *loanDomain.Loan) error {
		l.State = loanDomain.StateSigned
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return sentinel
	})

	got, err := loanRepo.GetByLoanID(ctx, "LN-RB")
	if err != nil {
		t.Fatalf("post-rollback GetByLoanID: %v", err)
	}
	if got.State != loanDomain.StateAccepted {
		t.Fatalf("expected accepted after rollback, got %s", got.State)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	guow := NewGormUoW(openTestDB(t))

	err := guow.WithinLoanTx(context.Background(), "LN-NOPE", func(uow.Repos, *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
