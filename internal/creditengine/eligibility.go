package creditengine

import "fmt"

const (
	ReasonInsufficientWeeklyIncome  = "Insufficient average weekly income"
	ReasonInsufficientMonthlyIncome = "Insufficient monthly income stability"
	ReasonInsufficientPositiveWeeks = "Insufficient positive cash flow weeks"
	ReasonNegativeNetCashFlow       = "Negative average net cash flow"
)

type check struct {
	factor EligibilityFactor
	// reason is empty for checks that can only warn
	reason string
}

// Evaluate runs all five checks in fixed order and never short-circuits.
// The reason is the first blocking failure; the volatility check only warns.
func Evaluate(s CashFlowSummary, cfg EligibilityConfig) (EligibilityResult, error) {
	if err := s.Validate(); err != nil {
		return EligibilityResult{}, err
	}

	weekly := s.AverageWeeklyIncome()
	positiveWeeks := int(roundHalfUp(s.PositiveRatio() * float64(cfg.AnalysisWindowWeeks)))

	checks := []check{
		{
			factor: EligibilityFactor{
				Factor:   "Average weekly income",
				Value:    formatEUR(weekly),
				Required: "≥ " + formatEUR(cfg.MinWeeklyIncome),
				Status:   passOr(weekly >= cfg.MinWeeklyIncome, StatusFailed),
			},
			reason: ReasonInsufficientWeeklyIncome,
		},
		{
			factor: EligibilityFactor{
				Factor:   "Average monthly income",
				Value:    formatEUR(s.AverageIncome),
				Required: "≥ " + formatEUR(cfg.MinMonthlyIncome),
				Status:   passOr(s.AverageIncome >= cfg.MinMonthlyIncome, StatusFailed),
			},
			reason: ReasonInsufficientMonthlyIncome,
		},
		{
			factor: EligibilityFactor{
				Factor:   "Cash flow volatility",
				Value:    fmt.Sprintf("%.0f%%", s.Volatility),
				Required: fmt.Sprintf("≤ %.0f%%", cfg.MaxVolatility),
				Status:   passOr(s.Volatility <= cfg.MaxVolatility, StatusWarning),
			},
		},
		{
			factor: EligibilityFactor{
				Factor:   "Positive cash flow weeks",
				Value:    fmt.Sprintf("%d of %d weeks", positiveWeeks, cfg.AnalysisWindowWeeks),
				Required: fmt.Sprintf("≥ %d of %d weeks", cfg.MinPositiveWeeksOutOfWindow, cfg.AnalysisWindowWeeks),
				Status:   passOr(positiveWeeks >= cfg.MinPositiveWeeksOutOfWindow, StatusFailed),
			},
			reason: ReasonInsufficientPositiveWeeks,
		},
		{
			factor: EligibilityFactor{
				Factor:   "Average net cash flow",
				Value:    formatEUR(s.AverageNetCashFlow) + "/month",
				Required: "Positive",
				Status:   passOr(s.AverageNetCashFlow > 0, StatusFailed),
			},
			reason: ReasonNegativeNetCashFlow,
		},
	}

	res := EligibilityResult{
		IsEligible:          true,
		Factors:             make([]EligibilityFactor, 0, len(checks)),
		AverageWeeklyIncome: weekly,
	}
	for _, c := range checks {
		res.Factors = append(res.Factors, c.factor)
		if c.factor.Status != StatusFailed || c.reason == "" {
			continue
		}
		if res.IsEligible {
			res.Reason = c.reason
		}
		res.IsEligible = false
	}
	return res, nil
}

func passOr(ok bool, otherwise FactorStatus) FactorStatus {
	if ok {
		return StatusPassed
	}
	return otherwise
}

func formatEUR(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-€%.0f", -v)
	}
	return fmt.Sprintf("€%.0f", v)
}
