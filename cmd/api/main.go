package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	httpadp "cashflow-bridge/internal/adapter/http"
	idemp "cashflow-bridge/internal/adapter/middleware"
	"cashflow-bridge/internal/adapter/repository/mysql"
	"cashflow-bridge/internal/adapter/store/memstore"
	"cashflow-bridge/internal/adapter/store/redisstore"
	"cashflow-bridge/internal/config"
	"cashflow-bridge/internal/creditengine"
	"cashflow-bridge/internal/domain/offer"
	"cashflow-bridge/internal/infrastructure/cache"
	"cashflow-bridge/internal/infrastructure/consent"
	"cashflow-bridge/internal/infrastructure/db"
	"cashflow-bridge/internal/infrastructure/logging"
	"cashflow-bridge/internal/infrastructure/metrics"
	"cashflow-bridge/internal/infrastructure/scheduler"
	accountUC "cashflow-bridge/internal/usecase/account"
	decisionUC "cashflow-bridge/internal/usecase/decision"
	loanUC "cashflow-bridge/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("mysql connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("mysql migrate")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connect")
	}
	defer rdb.Close()

	engine, err := creditengine.New(cfg.Engine)
	if err != nil {
		log.WithError(err).Fatal("credit engine")
	}

	var offers offer.Store
	switch cfg.OfferStore {
	case config.OfferStoreMemory:
		offers = memstore.New()
	default:
		offers = redisstore.New(rdb, cfg.OfferRetention)
	}

	accounts := mysql.NewAccountRepository(gdb)
	txs := mysql.NewTransactionRepository(gdb)
	decisions := mysql.NewDecisionRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	tokens := consent.NewIssuer(cfg.JWTSecret, cfg.ConsentTTL)
	rec := metrics.NewRecorder(prometheus.DefaultRegisterer)

	accUC := accountUC.NewUsecase(accounts, txs, uow, tokens, log)
	decUC := decisionUC.NewUsecase(decisionUC.Deps{
		Accounts:  accounts,
		Txs:       txs,
		Decisions: decisions,
		Offers:    offers,
		Engine:    engine,
		Observer:  rec,
		Log:       log,
		Retention: cfg.OfferRetention,
	})
	lnUC := loanUC.NewUsecase(loans, offers, uow, rec, log)

	sched := scheduler.New(log, 30*time.Second)
	if err := sched.Add("offer-sweep", cfg.SweepSchedule, func(ctx context.Context) error {
		_, err := decUC.SweepExpiredOffers(ctx)
		return err
	}); err != nil {
		log.WithError(err).Fatal("schedule offer sweep")
	}
	sched.Start()

	e := newServer(cfg, tokens, rdb, log,
		httpadp.NewHandler(),
		httpadp.NewAccountHandler(accUC),
		httpadp.NewDecisionHandler(decUC),
		httpadp.NewLoanHandler(lnUC),
	)

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("http server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	sched.Stop(shutdownCtx)
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("stopped")
}

func newServer(
	cfg *config.Config,
	tokens idemp.Verifier,
	rdb *redis.Client,
	log logrus.FieldLogger,
	h *httpadp.Handler,
	ah *httpadp.AccountHandler,
	dh *httpadp.DecisionHandler,
	lh *httpadp.LoanHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Validator = httpadp.NewValidator()

	idempotent := idemp.Idempotency(rdb, cfg.IdempotencyTTL(), log)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(prometheus.DefaultGatherer)))
	e.GET("/personas", h.Personas)

	e.POST("/accounts", ah.Connect)
	acc := e.Group("/accounts/:account_id", idemp.RequireConsent(tokens))
	acc.GET("/transactions", ah.Transactions)
	acc.GET("/cashflow", ah.CashFlow)
	acc.GET("/decision", dh.Latest)
	acc.POST("/decision", dh.Decide, idempotent)

	e.GET("/offers/:offer_id", dh.GetOffer)
	e.POST("/offers/:offer_id/accept", lh.AcceptOffer, idempotent)

	e.GET("/loans/:loan_id", lh.GetLoan)
	e.POST("/loans/:loan_id/sign", lh.SignLoan)
	e.POST("/loans/:loan_id/disburse", lh.Disburse)

	return e
}
