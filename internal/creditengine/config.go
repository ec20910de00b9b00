package creditengine

import (
	"fmt"
	"math"
	"time"
)

// WeeksPerMonth is 52/12 truncated to two decimals. Kept as is so weekly
// figures match the numbers applicants have already been shown.
const WeeksPerMonth = 4.33

type EligibilityConfig struct {
	MinWeeklyIncome             float64 `json:"min_weekly_income"`
	MinMonthlyIncome            float64 `json:"min_monthly_income"`
	MaxVolatility               float64 `json:"max_volatility"`
	MinPositiveWeeksOutOfWindow int     `json:"min_positive_weeks_out_of_window"`
	AnalysisWindowWeeks         int     `json:"analysis_window_weeks"`
}

type OfferConfig struct {
	LoanPercentageOfWeeklyIncome float64       `json:"loan_percentage_of_weekly_income"`
	WeeklyInterestRate           float64       `json:"weekly_interest_rate"`
	MinLoanAmount                float64       `json:"min_loan_amount"`
	MaxLoanAmount                float64       `json:"max_loan_amount"`
	OfferValidity                time.Duration `json:"offer_validity"`
	RenewalPeriod                time.Duration `json:"renewal_period"`
}

type Config struct {
	Eligibility EligibilityConfig `json:"eligibility"`
	Offer       OfferConfig       `json:"offer"`
}

// DefaultConfig is the reference configuration of the demo.
func DefaultConfig() Config {
	return Config{
		Eligibility: EligibilityConfig{
			MinWeeklyIncome:             500,
			MinMonthlyIncome:            2000,
			MaxVolatility:               40,
			MinPositiveWeeksOutOfWindow: 3,
			AnalysisWindowWeeks:         8,
		},
		Offer: OfferConfig{
			LoanPercentageOfWeeklyIncome: 0.5,
			WeeklyInterestRate:           0.012,
			MinLoanAmount:                500,
			MaxLoanAmount:                5000,
			OfferValidity:                24 * time.Hour,
			RenewalPeriod:                7 * 24 * time.Hour,
		},
	}
}

func (c EligibilityConfig) Validate() error {
	switch {
	case c.MinWeeklyIncome < 0 || c.MinMonthlyIncome < 0:
		return fmt.Errorf("%w: income thresholds must not be negative", ErrInvalidConfig)
	case c.MaxVolatility <= 0:
		return fmt.Errorf("%w: max volatility must be positive", ErrInvalidConfig)
	case c.AnalysisWindowWeeks <= 0:
		return fmt.Errorf("%w: analysis window must be at least one week", ErrInvalidConfig)
	case c.MinPositiveWeeksOutOfWindow < 0 || c.MinPositiveWeeksOutOfWindow > c.AnalysisWindowWeeks:
		return fmt.Errorf("%w: min positive weeks must be within [0, %d]", ErrInvalidConfig, c.AnalysisWindowWeeks)
	}
	return nil
}

func (c OfferConfig) Validate() error {
	switch {
	case c.LoanPercentageOfWeeklyIncome <= 0 || c.LoanPercentageOfWeeklyIncome > 1:
		return fmt.Errorf("%w: loan percentage must be within (0, 1]", ErrInvalidConfig)
	case c.WeeklyInterestRate <= 0:
		return fmt.Errorf("%w: weekly interest rate must be positive", ErrInvalidConfig)
	case c.MinLoanAmount <= 0:
		return fmt.Errorf("%w: min loan amount must be positive", ErrInvalidConfig)
	case c.MinLoanAmount > c.MaxLoanAmount:
		return fmt.Errorf("%w: min loan amount %.0f exceeds max %.0f", ErrInvalidConfig, c.MinLoanAmount, c.MaxLoanAmount)
	case math.Mod(c.MinLoanAmount, loanRounding) != 0 || math.Mod(c.MaxLoanAmount, loanRounding) != 0:
		return fmt.Errorf("%w: loan bounds must be multiples of %d", ErrInvalidConfig, loanRounding)
	case c.OfferValidity <= 0 || c.RenewalPeriod <= 0:
		return fmt.Errorf("%w: offer validity and renewal period must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Eligibility.Validate(); err != nil {
		return err
	}
	return c.Offer.Validate()
}
