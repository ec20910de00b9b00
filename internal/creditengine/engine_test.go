package creditengine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestNew_ValidatesConfig(t *testing.T) {
	mutations := map[string]func(c *Config){
		"min above max":         func(c *Config) { c.Offer.MinLoanAmount = 6000 },
		"bounds not hundreds":   func(c *Config) { c.Offer.MaxLoanAmount = 4950 },
		"zero rate":             func(c *Config) { c.Offer.WeeklyInterestRate = 0 },
		"percentage above one":  func(c *Config) { c.Offer.LoanPercentageOfWeeklyIncome = 1.5 },
		"zero validity":         func(c *Config) { c.Offer.OfferValidity = 0 },
		"empty window":          func(c *Config) { c.Eligibility.AnalysisWindowWeeks = 0 },
		"weeks beyond window":   func(c *Config) { c.Eligibility.MinPositiveWeeksOutOfWindow = 9 },
		"negative income floor": func(c *Config) { c.Eligibility.MinWeeklyIncome = -1 },
		"zero max volatility":   func(c *Config) { c.Eligibility.MaxVolatility = 0 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := New(DefaultConfig())
	assert.NoError(t, err)
}

func TestDecide_Scenarios(t *testing.T) {
	e := newEngine(t)

	t.Run("approved at minimum amount", func(t *testing.T) {
		d, err := e.Decide(CashFlowSummary{AverageIncome: 2300, Volatility: 15, AverageNetCashFlow: 333, PositiveCashFlowPeriods: 3, TotalPeriods: 3}, asOf)
		require.NoError(t, err)
		assert.True(t, d.Approved)
		require.NotNil(t, d.Offer)
		assert.Nil(t, d.Referral)
		assert.Equal(t, 500.0, d.Offer.LoanAmount)
	})

	t.Run("low income rejected with start-up grant", func(t *testing.T) {
		d, err := e.Decide(CashFlowSummary{AverageIncome: 800, Volatility: 20, AverageNetCashFlow: 100, PositiveCashFlowPeriods: 2, TotalPeriods: 3}, asOf)
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, ReasonInsufficientWeeklyIncome, d.Reason)
		assert.Nil(t, d.Offer)
		require.NotNil(t, d.Referral)
		assert.Equal(t, "Gründungszuschuss (Agentur für Arbeit)", d.Referral.Partner)
	})

	t.Run("volatile but approved with warning", func(t *testing.T) {
		d, err := e.Decide(CashFlowSummary{AverageIncome: 3500, Volatility: 45, AverageNetCashFlow: 500, PositiveCashFlowPeriods: 3, TotalPeriods: 3}, asOf)
		require.NoError(t, err)
		assert.True(t, d.Approved)
		assert.Equal(t, StatusWarning, d.Factors[2].Status)
	})

	t.Run("negative flow rejected with advisory", func(t *testing.T) {
		d, err := e.Decide(CashFlowSummary{AverageIncome: 3000, Volatility: 20, AverageNetCashFlow: -50, PositiveCashFlowPeriods: 1, TotalPeriods: 3}, asOf)
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, ReasonNegativeNetCashFlow, d.Reason)
		assert.Equal(t, "IHK business advisory", d.Referral.Partner)
	})

	t.Run("no periods", func(t *testing.T) {
		_, err := e.Decide(CashFlowSummary{}, asOf)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestDecide_RejectionShape(t *testing.T) {
	e := newEngine(t)
	d, err := e.Decide(CashFlowSummary{AverageIncome: 800, Volatility: 20, AverageNetCashFlow: 100, PositiveCashFlowPeriods: 2, TotalPeriods: 3}, asOf)
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	assert.Equal(t, false, raw["approved"])
	assert.Equal(t, ReasonInsufficientWeeklyIncome, raw["reason"])
	assert.Len(t, raw["factors"], 5)
	assert.Contains(t, raw, "referral")
	assert.NotContains(t, raw, "offer")
}

func TestDecide_IsDeterministic(t *testing.T) {
	e := newEngine(t)
	s := CashFlowSummary{AverageIncome: 6000, Volatility: 50, AverageNetCashFlow: 640, PositiveCashFlowPeriods: 3, TotalPeriods: 3}

	first, err := e.Decide(s, asOf)
	require.NoError(t, err)
	want, _ := json.Marshal(first)
	for i := 0; i < 10; i++ {
		d, err := e.Decide(s, asOf)
		require.NoError(t, err)
		got, _ := json.Marshal(d)
		assert.Equal(t, string(want), string(got))
	}
}
