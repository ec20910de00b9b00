package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow-bridge/internal/creditengine"
	domainAccount "cashflow-bridge/internal/domain/account"
	domainDecision "cashflow-bridge/internal/domain/decision"
	"cashflow-bridge/internal/domain/offer"
	"cashflow-bridge/internal/domain/transaction"
	"cashflow-bridge/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNoDecision is returned when an account has never been decided.
var ErrNoDecision = errors.New("no decision recorded for account")

// Engine is the pure decision pipeline.
type Engine interface {
	Decide(s creditengine.CashFlowSummary, asOf time.Time) (creditengine.Decision, error)
}

type Observer interface {
	ObserveDecision(d creditengine.Decision)
	ObserveSwept(n int)
}

type Usecase struct {
	accounts  domainAccount.Repository
	txs       transaction.Repository
	decisions domainDecision.Repository
	offers    offer.Store
	engine    Engine
	obs       Observer
	log       logrus.FieldLogger
	now       func() time.Time
	// how long expired offers stay readable before a sweep drops them
	retention time.Duration
}

type Deps struct {
	Accounts  domainAccount.Repository
	Txs       transaction.Repository
	Decisions domainDecision.Repository
	Offers    offer.Store
	Engine    Engine
	Observer  Observer
	Log       logrus.FieldLogger
	Retention time.Duration
}

func NewUsecase(d Deps) *Usecase {
	return &Usecase{
		accounts:  d.Accounts,
		txs:       d.Txs,
		decisions: d.Decisions,
		offers:    d.Offers,
		engine:    d.Engine,
		obs:       d.Observer,
		log:       d.Log,
		now:       func() time.Time { return time.Now().UTC() },
		retention: d.Retention,
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Decide runs the account's history through the engine. Approved decisions
// park their offer in the offer store; every decision is recorded.
func (u *Usecase) Decide(ctx context.Context, accountID string) (*DecisionDTO, error) {
	if _, err := u.accounts.GetByAccountID(ctx, accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainAccount.ErrNotFound
		}
		return nil, err
	}
	txs, err := u.txs.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	summary, err := creditengine.Aggregate(txs)
	if err != nil {
		return nil, err
	}

	now := u.now()
	d, err := u.engine.Decide(summary, now)
	if err != nil {
		return nil, err
	}

	rec := &domainDecision.Record{
		DecisionID:    id.NewID32(),
		AccountID:     accountID,
		Approved:      d.Approved,
		Reason:        d.Reason,
		AverageIncome: summary.AverageIncome,
		Volatility:    summary.Volatility,
		DecidedAt:     now,
	}

	var stored *offer.Offer
	switch {
	case d.Offer != nil:
		stored = &offer.Offer{
			OfferID:   id.NewID32(),
			AccountID: accountID,
			Credit:    *d.Offer,
			CreatedAt: now,
			ExpiresAt: d.Offer.OfferValidUntil,
		}
		if err := u.offers.Set(ctx, stored); err != nil {
			return nil, fmt.Errorf("store offer: %w", err)
		}
		rec.OfferID = stored.OfferID
		rec.LoanAmount = d.Offer.LoanAmount
		rec.RiskScore = d.Offer.RiskScore
	case d.Referral != nil:
		rec.ReferralPartner = d.Referral.Partner
	}

	if err := u.decisions.Create(ctx, rec); err != nil {
		if stored != nil {
			if derr := u.offers.Delete(ctx, stored.OfferID); derr != nil {
				u.log.WithError(derr).WithField("offer_id", stored.OfferID).Warn("orphaned offer left in store")
			}
		}
		return nil, fmt.Errorf("record decision: %w", err)
	}

	u.obs.ObserveDecision(d)
	u.log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"decision_id": rec.DecisionID,
		"approved":    d.Approved,
		"reason":      d.Reason,
		"offer_id":    rec.OfferID,
		"loan_amount": rec.LoanAmount,
	}).Info("credit decision")

	return &DecisionDTO{
		DecisionID: rec.DecisionID,
		AccountID:  accountID,
		OfferID:    rec.OfferID,
		Decision:   d,
	}, nil
}

// Latest returns the most recent recorded decision for an account.
func (u *Usecase) Latest(ctx context.Context, accountID string) (*RecordDTO, error) {
	r, err := u.decisions.GetLatestByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDecision
		}
		return nil, err
	}
	return &RecordDTO{
		DecisionID:      r.DecisionID,
		Approved:        r.Approved,
		Reason:          r.Reason,
		OfferID:         r.OfferID,
		LoanAmount:      r.LoanAmount,
		RiskScore:       r.RiskScore,
		ReferralPartner: r.ReferralPartner,
		DecidedAt:       r.DecidedAt,
	}, nil
}

func (u *Usecase) GetOffer(ctx context.Context, offerID string) (*OfferDTO, error) {
	o, err := u.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o.Expired(u.now()) {
		return nil, offer.ErrExpired
	}
	return &OfferDTO{OfferID: o.OfferID, AccountID: o.AccountID, Offer: o.Credit, ExpiresAt: o.ExpiresAt}, nil
}

// SweepExpiredOffers drops offers that expired more than the retention ago.
func (u *Usecase) SweepExpiredOffers(ctx context.Context) (int, error) {
	n, err := u.offers.SweepExpired(ctx, u.now().Add(-u.retention))
	if err != nil {
		return 0, err
	}
	u.obs.ObserveSwept(n)
	if n > 0 {
		u.log.WithField("swept", n).Info("expired offers removed")
	}
	return n, nil
}
