package decision

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"cashflow-bridge/internal/adapter/store/memstore"
	"cashflow-bridge/internal/creditengine"
	domainAccount "cashflow-bridge/internal/domain/account"
	domainDecision "cashflow-bridge/internal/domain/decision"
	"cashflow-bridge/internal/domain/offer"
	"cashflow-bridge/internal/domain/transaction"
	"cashflow-bridge/internal/infrastructure/logging"
	"cashflow-bridge/internal/testutil/accountmock"
	"cashflow-bridge/internal/testutil/decisionmock"
	"cashflow-bridge/internal/testutil/offermock"
	"cashflow-bridge/internal/testutil/transactionmock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

type fakeObserver struct {
	decisions []creditengine.Decision
	swept     int
}

func (f *fakeObserver) ObserveDecision(d creditengine.Decision) { f.decisions = append(f.decisions, d) }
func (f *fakeObserver) ObserveSwept(n int)                      { f.swept += n }

// history builds one income and one expense per month for Jun..Aug 2025.
func history(income, expense int64) []transaction.Transaction {
	var out []transaction.Transaction
	for m := time.June; m <= time.August; m++ {
		d := time.Date(2025, m, 10, 0, 0, 0, 0, time.UTC)
		out = append(out,
			transaction.Transaction{AccountID: "A", Date: d, Amount: decimal.NewFromInt(income), Category: transaction.CategoryIncome, Type: transaction.TypeIncome},
			transaction.Transaction{AccountID: "A", Date: d, Amount: decimal.NewFromInt(-expense), Category: transaction.CategoryRent, Type: transaction.TypeExpense},
		)
	}
	return out
}

type fixture struct {
	uc        *Usecase
	offers    offer.Store
	obs       *fakeObserver
	records   []*domainDecision.Record
	decisions *decisionmock.Repo
}

func newFixture(t *testing.T, txs []transaction.Transaction, offers offer.Store) *fixture {
	t.Helper()
	engine, err := creditengine.New(creditengine.DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if offers == nil {
		offers = memstore.New()
	}
	f := &fixture{offers: offers, obs: &fakeObserver{}}
	f.decisions = &decisionmock.Repo{
		CreateFn: func(_ context.Context, r *domainDecision.Record) error {
			f.records = append(f.records, r)
			return nil
		},
	}
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(_ context.Context, id string) (*domainAccount.Account, error) {
			if id != "A" {
				return nil, gorm.ErrRecordNotFound
			}
			return &domainAccount.Account{AccountID: "A"}, nil
		},
	}
	txRepo := &transactionmock.Repo{
		ListByAccountIDFn: func(context.Context, string) ([]transaction.Transaction, error) { return txs, nil },
	}
	f.uc = NewUsecase(Deps{
		Accounts:  accounts,
		Txs:       txRepo,
		Decisions: f.decisions,
		Offers:    offers,
		Engine:    engine,
		Observer:  f.obs,
		Log:       logging.Discard(),
		Retention: time.Hour,
	}).WithClock(func() time.Time { return fixedNow })
	return f
}

func TestDecide_ApprovedStoresOffer(t *testing.T) {
	f := newFixture(t, history(8000, 5000), nil)
	ctx := context.Background()

	dto, err := f.uc.Decide(ctx, "A")
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if !dto.Approved || dto.Offer == nil || dto.Referral != nil {
		t.Fatalf("expected approval with offer: %+v", dto)
	}
	if len(dto.OfferID) != 32 || len(dto.DecisionID) != 32 {
		t.Fatalf("ids not assigned: %+v", dto)
	}
	if amt := dto.Offer.LoanAmount; amt < 500 || amt > 5000 || math.Mod(amt, 100) != 0 {
		t.Fatalf("loan amount out of bounds: %v", amt)
	}

	stored, err := f.offers.Get(ctx, dto.OfferID)
	if err != nil {
		t.Fatalf("offer not stored: %v", err)
	}
	if !stored.ExpiresAt.Equal(fixedNow.Add(24*time.Hour)) || stored.AccountID != "A" {
		t.Fatalf("unexpected stored offer: %+v", stored)
	}

	if len(f.records) != 1 {
		t.Fatalf("records = %d, want 1", len(f.records))
	}
	rec := f.records[0]
	if !rec.Approved || rec.OfferID != dto.OfferID || rec.LoanAmount != dto.Offer.LoanAmount || rec.RiskScore != dto.Offer.RiskScore {
		t.Fatalf("record mismatch: %+v", rec)
	}
	if rec.AverageIncome != 8000 || !rec.DecidedAt.Equal(fixedNow) {
		t.Fatalf("record summary mismatch: %+v", rec)
	}
	if len(f.obs.decisions) != 1 {
		t.Fatal("decision not observed")
	}

	got, err := f.uc.GetOffer(ctx, dto.OfferID)
	if err != nil {
		t.Fatalf("GetOffer: %v", err)
	}
	if got.Offer.LoanAmount != dto.Offer.LoanAmount {
		t.Fatalf("GetOffer mismatch: %+v", got)
	}
}

func TestDecide_RejectedRecordsReferral(t *testing.T) {
	// 300 a month is ~69 a week, under the weekly floor
	f := newFixture(t, history(300, 100), &offermock.Store{
		SetFn: func(context.Context, *offer.Offer) error {
			t.Fatal("rejected decisions must not store offers")
			return nil
		},
	})

	dto, err := f.uc.Decide(context.Background(), "A")
	if err != nil {
		t.Fatalf("Decide err: %v", err)
	}
	if dto.Approved || dto.Referral == nil || dto.Offer != nil || dto.OfferID != "" {
		t.Fatalf("expected rejection with referral: %+v", dto)
	}
	if dto.Reason != creditengine.ReasonInsufficientWeeklyIncome {
		t.Fatalf("reason = %q", dto.Reason)
	}
	if len(f.records) != 1 || f.records[0].ReferralPartner != dto.Referral.Partner || f.records[0].Approved {
		t.Fatalf("record mismatch: %+v", f.records)
	}
}

func TestDecide_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown account", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		if _, err := f.uc.Decide(ctx, "nope"); !errors.Is(err, domainAccount.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("no history", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		if _, err := f.uc.Decide(ctx, "A"); !errors.Is(err, creditengine.ErrInsufficientData) {
			t.Fatalf("want ErrInsufficientData, got %v", err)
		}
		if len(f.records) != 0 {
			t.Fatal("nothing should be recorded")
		}
	})

	t.Run("offer store down", func(t *testing.T) {
		boom := errors.New("redis down")
		f := newFixture(t, history(8000, 5000), &offermock.Store{
			SetFn: func(context.Context, *offer.Offer) error { return boom },
		})
		if _, err := f.uc.Decide(ctx, "A"); !errors.Is(err, boom) {
			t.Fatalf("want store error, got %v", err)
		}
		if len(f.records) != 0 {
			t.Fatal("decision must not be recorded without its offer")
		}
	})

	t.Run("record fails removes offer", func(t *testing.T) {
		store := memstore.New()
		f := newFixture(t, history(8000, 5000), store)
		boom := errors.New("db down")
		f.decisions.CreateFn = func(context.Context, *domainDecision.Record) error { return boom }

		if _, err := f.uc.Decide(ctx, "A"); !errors.Is(err, boom) {
			t.Fatalf("want db error, got %v", err)
		}
		if store.Len() != 0 {
			t.Fatalf("offer should be removed, store holds %d", store.Len())
		}
		if len(f.obs.decisions) != 0 {
			t.Fatal("failed decisions must not be observed")
		}
	})
}

func TestGetOffer_ExpiredAndUnknown(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	f := newFixture(t, nil, store)

	_ = store.Set(ctx, &offer.Offer{OfferID: "old", ExpiresAt: fixedNow.Add(-time.Minute)})

	if _, err := f.uc.GetOffer(ctx, "old"); !errors.Is(err, offer.ErrExpired) {
		t.Fatalf("want ErrExpired, got %v", err)
	}
	if _, err := f.uc.GetOffer(ctx, "missing"); !errors.Is(err, offer.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSweepExpiredOffers_KeepsRecentlyExpired(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	f := newFixture(t, nil, store)

	_ = store.Set(ctx, &offer.Offer{OfferID: "long-gone", ExpiresAt: fixedNow.Add(-2 * time.Hour)})
	_ = store.Set(ctx, &offer.Offer{OfferID: "just-expired", ExpiresAt: fixedNow.Add(-time.Minute)})
	_ = store.Set(ctx, &offer.Offer{OfferID: "live", ExpiresAt: fixedNow.Add(time.Hour)})

	n, err := f.uc.SweepExpiredOffers(ctx)
	if err != nil || n != 1 {
		t.Fatalf("SweepExpiredOffers = %d, %v; want 1", n, err)
	}
	if f.obs.swept != 1 || store.Len() != 2 {
		t.Fatalf("swept=%d len=%d", f.obs.swept, store.Len())
	}
	if _, err := f.uc.GetOffer(ctx, "just-expired"); !errors.Is(err, offer.ErrExpired) {
		t.Fatalf("recently expired offer should still answer expired, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)

	f.decisions.GetLatestByAccountIDFn = func(context.Context, string) (*domainDecision.Record, error) {
		return nil, gorm.ErrRecordNotFound
	}
	if _, err := f.uc.Latest(ctx, "A"); !errors.Is(err, ErrNoDecision) {
		t.Fatalf("want ErrNoDecision, got %v", err)
	}

	f.decisions.GetLatestByAccountIDFn = func(context.Context, string) (*domainDecision.Record, error) {
		return &domainDecision.Record{DecisionID: "D1", Approved: true, OfferID: "O1", LoanAmount: 900, DecidedAt: fixedNow}, nil
	}
	got, err := f.uc.Latest(ctx, "A")
	if err != nil || got.DecisionID != "D1" || got.LoanAmount != 900 {
		t.Fatalf("Latest = %+v, %v", got, err)
	}
}
