package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"cashflow-bridge/internal/creditengine"
)

const (
	OfferStoreRedis  = "redis"
	OfferStoreMemory = "memory"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	LogLevel  string
	LogFormat string

	JWTSecret  string
	ConsentTTL time.Duration

	OfferStore     string
	SweepSchedule  string
	OfferRetention time.Duration

	Engine creditengine.Config
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getenvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "cashflow"),
		MySQLUser: getenv("MYSQL_USER", "cashflow"),
		MySQLPass: getenv("MYSQL_PASS", "cashflow"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		JWTSecret:  getenv("JWT_SECRET", ""),
		ConsentTTL: getenvDuration("CONSENT_TTL", 2*time.Hour),

		OfferStore:    getenv("OFFER_STORE", OfferStoreRedis),
		SweepSchedule: getenv("SWEEP_SCHEDULE", "@every 1m"),
		// expired offers answer 410 for this long, then 404
		OfferRetention: getenvDuration("OFFER_RETENTION", time.Hour),
	}

	e := creditengine.DefaultConfig()
	e.Eligibility.MinWeeklyIncome = getenvFloat("MIN_WEEKLY_INCOME", e.Eligibility.MinWeeklyIncome)
	e.Eligibility.MinMonthlyIncome = getenvFloat("MIN_MONTHLY_INCOME", e.Eligibility.MinMonthlyIncome)
	e.Eligibility.MaxVolatility = getenvFloat("MAX_VOLATILITY", e.Eligibility.MaxVolatility)
	e.Eligibility.MinPositiveWeeksOutOfWindow = getenvInt("MIN_POSITIVE_WEEKS", e.Eligibility.MinPositiveWeeksOutOfWindow)
	e.Eligibility.AnalysisWindowWeeks = getenvInt("ANALYSIS_WINDOW_WEEKS", e.Eligibility.AnalysisWindowWeeks)
	e.Offer.LoanPercentageOfWeeklyIncome = getenvFloat("LOAN_PERCENTAGE_OF_WEEKLY_INCOME", e.Offer.LoanPercentageOfWeeklyIncome)
	e.Offer.WeeklyInterestRate = getenvFloat("WEEKLY_INTEREST_RATE", e.Offer.WeeklyInterestRate)
	e.Offer.MinLoanAmount = getenvFloat("MIN_LOAN_AMOUNT", e.Offer.MinLoanAmount)
	e.Offer.MaxLoanAmount = getenvFloat("MAX_LOAN_AMOUNT", e.Offer.MaxLoanAmount)
	e.Offer.OfferValidity = getenvDuration("OFFER_VALIDITY", e.Offer.OfferValidity)
	c.Engine = e

	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.ConsentTTL <= 0 {
		return errors.New("CONSENT_TTL must be positive")
	}
	switch c.OfferStore {
	case OfferStoreRedis, OfferStoreMemory:
	default:
		return fmt.Errorf("invalid OFFER_STORE %q (want %s or %s)", c.OfferStore, OfferStoreRedis, OfferStoreMemory)
	}
	if c.OfferRetention < 0 {
		return errors.New("OFFER_RETENTION must not be negative")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine thresholds: %w", err)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATE/DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
