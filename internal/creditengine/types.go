package creditengine

import "time"

// MonthlyFlow is one calendar month of income and expenses.
type MonthlyFlow struct {
	Period   string  `json:"period"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

func (m MonthlyFlow) Net() float64 { return m.Income - m.Expenses }

// CashFlowSummary is the only input the decision logic sees.
type CashFlowSummary struct {
	AverageIncome           float64 `json:"averageIncome"`
	AverageExpenses         float64 `json:"averageExpenses"`
	AverageNetCashFlow      float64 `json:"averageNetCashFlow"`
	Volatility              float64 `json:"volatility"`
	PositiveCashFlowPeriods int     `json:"positiveCashFlowPeriods"`
	TotalPeriods            int     `json:"totalPeriods"`
}

// Validate rejects summaries the engine cannot divide by.
func (s CashFlowSummary) Validate() error {
	if s.TotalPeriods <= 0 {
		return ErrInsufficientData
	}
	if s.PositiveCashFlowPeriods < 0 || s.PositiveCashFlowPeriods > s.TotalPeriods {
		return ErrInvalidSummary
	}
	return nil
}

// PositiveRatio is the share of periods with positive net cash flow.
func (s CashFlowSummary) PositiveRatio() float64 {
	return float64(s.PositiveCashFlowPeriods) / float64(s.TotalPeriods)
}

// AverageWeeklyIncome derives weekly income from the monthly average.
func (s CashFlowSummary) AverageWeeklyIncome() float64 {
	return s.AverageIncome / WeeksPerMonth
}

type FactorStatus string

const (
	StatusPassed  FactorStatus = "passed"
	StatusWarning FactorStatus = "warning"
	StatusFailed  FactorStatus = "failed"
)

type EligibilityFactor struct {
	Factor   string       `json:"factor"`
	Value    string       `json:"value"`
	Required string       `json:"required"`
	Status   FactorStatus `json:"status"`
}

type EligibilityResult struct {
	IsEligible          bool                `json:"isEligible"`
	Reason              string              `json:"reason,omitempty"`
	Factors             []EligibilityFactor `json:"factors"`
	AverageWeeklyIncome float64             `json:"averageWeeklyIncome"`
}

type RepaymentTerms struct {
	WeeklyPayment      float64 `json:"weeklyPayment"`
	WeeklyInterest     float64 `json:"weeklyInterest"`
	TotalWeeklyPayment float64 `json:"totalWeeklyPayment"`
	EffectiveAPR       float64 `json:"effectiveAPR"`
	RenewalDate        string  `json:"renewalDate"` // YYYY-MM-DD
	FlexibleTerms      bool    `json:"flexibleTerms"`
}

type Explanation struct {
	Summary       string   `json:"summary"`
	Calculation   string   `json:"calculation"`
	Strengths     []string `json:"strengths"`
	WeeklyBenefit string   `json:"weeklyBenefit"`
	Comparison    string   `json:"comparison"`
}

type CompetitiveAdvantage struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type CreditOffer struct {
	LoanAmount           float64              `json:"loanAmount"`
	WeeklyInterestRate   float64              `json:"weeklyInterestRate"`
	RepaymentTerms       RepaymentTerms       `json:"repaymentTerms"`
	RiskScore            int                  `json:"riskScore"`
	Factors              []string             `json:"factors"`
	Explanation          Explanation          `json:"explanation"`
	CompetitiveAdvantage CompetitiveAdvantage `json:"competitiveAdvantage"`
	OfferValidUntil      time.Time            `json:"offerValidUntil"`
}

type Referral struct {
	Partner           string `json:"partner"`
	Reason            string `json:"reason"`
	Actionable        string `json:"actionable"`
	AlternativeAction string `json:"alternativeAction"`
}

// Decision is the pipeline outcome. Exactly one of Offer and Referral is set.
type Decision struct {
	Approved bool                `json:"approved"`
	Reason   string              `json:"reason,omitempty"`
	Factors  []EligibilityFactor `json:"factors"`
	Offer    *CreditOffer        `json:"offer,omitempty"`
	Referral *Referral           `json:"referral,omitempty"`
	Summary  CashFlowSummary     `json:"summary"`
}
