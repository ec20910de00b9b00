package account

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"cashflow-bridge/internal/creditengine"
	domainAccount "cashflow-bridge/internal/domain/account"
	"cashflow-bridge/internal/domain/transaction"
	"cashflow-bridge/internal/domain/uow"
	"cashflow-bridge/internal/persona"
	"cashflow-bridge/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TokenIssuer signs consent tokens scoped to one account.
type TokenIssuer interface {
	Issue(accountID string) (token string, expiresAt time.Time, err error)
}

type Usecase struct {
	accounts domainAccount.Repository
	txs      transaction.Repository
	uow      uow.UnitOfWork
	tokens   TokenIssuer
	log      logrus.FieldLogger

	now     func() time.Time
	newRand func() *rand.Rand
}

func NewUsecase(accounts domainAccount.Repository, txs transaction.Repository, tx uow.UnitOfWork, tokens TokenIssuer, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		accounts: accounts,
		txs:      txs,
		uow:      tx,
		tokens:   tokens,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newRand:  func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

// WithClock fixes the time used for connection dates and generated history.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// WithSeed makes generated histories reproducible.
func (u *Usecase) WithSeed(seed int64) *Usecase {
	u.newRand = func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
	return u
}

// Connect simulates a bank connection: it creates the account, stores a
// generated history for the chosen persona and hands back a consent token.
func (u *Usecase) Connect(ctx context.Context, in ConnectInput) (*ConnectDTO, error) {
	p, err := persona.Lookup(in.Persona)
	if err != nil {
		return nil, err
	}
	now := u.now()

	history, err := persona.Generate(p.Archetype, now, u.newRand())
	if err != nil {
		return nil, err
	}

	a := &domainAccount.Account{
		AccountID:    id.NewID32(),
		BusinessName: in.BusinessName,
		Persona:      string(p.Archetype),
		ConnectedAt:  now,
	}
	if a.BusinessName == "" {
		a.BusinessName = p.Name
	}
	for i := range history {
		history[i].AccountID = a.AccountID
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Accounts.Create(ctx, a); err != nil {
			return err
		}
		return r.Transactions.CreateBatch(ctx, history)
	})
	if err != nil {
		return nil, fmt.Errorf("store account: %w", err)
	}

	token, exp, err := u.tokens.Issue(a.AccountID)
	if err != nil {
		return nil, fmt.Errorf("issue consent token: %w", err)
	}

	u.log.WithFields(logrus.Fields{
		"account_id":   a.AccountID,
		"persona":      a.Persona,
		"transactions": len(history),
	}).Info("account connected")

	return &ConnectDTO{
		AccountID:        a.AccountID,
		BusinessName:     a.BusinessName,
		Persona:          a.Persona,
		ConnectedAt:      a.ConnectedAt,
		TransactionCount: len(history),
		ConsentToken:     token,
		ConsentExpiresAt: exp,
	}, nil
}

func (u *Usecase) Transactions(ctx context.Context, accountID string) ([]TransactionDTO, error) {
	txs, err := u.history(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionDTO(t))
	}
	return out, nil
}

// CashFlow returns the monthly buckets and the summary the decision engine sees.
func (u *Usecase) CashFlow(ctx context.Context, accountID string) (*CashFlowDTO, error) {
	txs, err := u.history(ctx, accountID)
	if err != nil {
		return nil, err
	}
	months, err := creditengine.MonthlyFlows(txs)
	if err != nil {
		return nil, err
	}
	summary, err := creditengine.Summarize(months)
	if err != nil {
		return nil, err
	}
	return &CashFlowDTO{AccountID: accountID, Months: months, Summary: summary}, nil
}

func (u *Usecase) history(ctx context.Context, accountID string) ([]transaction.Transaction, error) {
	if _, err := u.accounts.GetByAccountID(ctx, accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainAccount.ErrNotFound
		}
		return nil, err
	}
	return u.txs.ListByAccountID(ctx, accountID)
}
