package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow-bridge/internal/domain/loan"
	"cashflow-bridge/internal/domain/offer"
	"cashflow-bridge/internal/domain/uow"
	"cashflow-bridge/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Observer interface {
	ObserveLoanState(state string)
}

// Usecase books accepted offers and walks them through signing and payout.
// Amounts and terms are copied from the offer, never recomputed.
type Usecase struct {
	repo   loan.Repository
	offers offer.Store
	uow    uow.UnitOfWork
	obs    Observer
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewUsecase(r loan.Repository, offers offer.Store, tx uow.UnitOfWork, obs Observer, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		repo:   r,
		offers: offers,
		uow:    tx,
		obs:    obs,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Accept(ctx context.Context, offerID string) (*LoanDTO, error) {
	o, err := u.offers.Get(ctx, offerID)
	if err != nil {
		if errors.Is(err, offer.ErrNotFound) {
			// accepted offers leave the store; tell them apart from unknown ones
			if _, lerr := u.repo.GetByOfferID(ctx, offerID); lerr == nil {
				return nil, loan.ErrAlreadyAccepted
			}
		}
		return nil, err
	}
	now := u.now()
	if o.Expired(now) {
		return nil, offer.ErrExpired
	}

	switch _, err := u.repo.GetByOfferID(ctx, offerID); {
	case err == nil:
		return nil, loan.ErrAlreadyAccepted
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	renewal, err := time.Parse("2006-01-02", o.Credit.RepaymentTerms.RenewalDate)
	if err != nil {
		return nil, fmt.Errorf("offer %s renewal date: %w", offerID, err)
	}

	l := &loan.Loan{
		LoanID:             id.NewID32(),
		OfferID:            o.OfferID,
		AccountID:          o.AccountID,
		Amount:             o.Credit.LoanAmount,
		WeeklyInterestRate: o.Credit.WeeklyInterestRate,
		TotalWeeklyPayment: o.Credit.RepaymentTerms.TotalWeeklyPayment,
		RenewalDate:        renewal,
		State:              loan.StateAccepted,
		StateUpdatedAt:     now,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	if err := u.offers.Delete(ctx, offerID); err != nil {
		u.log.WithError(err).WithField("offer_id", offerID).Warn("accepted offer not removed from store")
	}
	u.transitioned(l)
	return toDTO(l), nil
}

func (u *Usecase) Sign(ctx context.Context, in SignInput) (*LoanDTO, error) {
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		// State guard: only accepted → signed
		switch l.State {
		case loan.StateAccepted:
		case loan.StateSigned, loan.StateDisbursed:
			return loan.ErrAlreadySigned
		default:
			return loan.ErrInvalidTransition
		}

		signed := in.SignedDate.UTC()
		l.State = loan.StateSigned
		l.SignerName = in.SignerName
		l.SignerEmail = in.SignerEmail
		l.SignedDate = &signed
		l.StateUpdatedAt = u.now()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.transitioned(out)
	return toDTO(out), nil
}

func (u *Usecase) Disburse(ctx context.Context, in DisburseInput) (*LoanDTO, error) {
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		// State guard: only signed → disbursed
		if l.State != loan.StateSigned {
			return loan.ErrInvalidTransition
		}
		l.State = loan.StateDisbursed
		l.PayoutIBAN = in.IBAN
		l.StateUpdatedAt = u.now()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.transitioned(out)
	return toDTO(out), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(l), nil
}

func (u *Usecase) transitioned(l *loan.Loan) {
	u.obs.ObserveLoanState(string(l.State))
	u.log.WithFields(logrus.Fields{
		"loan_id":    l.LoanID,
		"account_id": l.AccountID,
		"state":      l.State,
	}).Info("loan state changed")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}
