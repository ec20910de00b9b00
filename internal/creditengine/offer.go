package creditengine

import (
	"fmt"
	"math"
	"time"
)

const (
	loanRounding = 100

	volatilityPenaltyFrom   = 30
	volatilityPenaltyWeight = 0.3
	consistencyBonusRatio   = 0.9
	consistencyBonus        = 1.15
	segmentMinWeeklyIncome  = 600
	segmentMaxWeeklyIncome  = 1500
	segmentBonus            = 1.10

	riskBase            = 50
	riskIncomeCap       = 25
	riskIncomeReference = 1500
	riskVolatilityMax   = 20
	riskConsistency     = 5
)

// adjustment is one step of the loan amount pipeline. Order matters.
type adjustment func(amount float64, s CashFlowSummary, weekly float64) float64

var loanAdjustments = []adjustment{
	func(amount float64, s CashFlowSummary, _ float64) float64 {
		if s.Volatility > volatilityPenaltyFrom {
			return amount * (1 - ((s.Volatility-volatilityPenaltyFrom)/100)*volatilityPenaltyWeight)
		}
		return amount
	},
	func(amount float64, s CashFlowSummary, _ float64) float64 {
		if s.PositiveRatio() > consistencyBonusRatio {
			return amount * consistencyBonus
		}
		return amount
	},
	func(amount float64, _ CashFlowSummary, weekly float64) float64 {
		if weekly >= segmentMinWeeklyIncome && weekly <= segmentMaxWeeklyIncome {
			return amount * segmentBonus
		}
		return amount
	},
}

// LoanAmount runs penalty, bonuses, clamp and rounding in that order.
func LoanAmount(s CashFlowSummary, cfg OfferConfig) float64 {
	weekly := s.AverageWeeklyIncome()
	amount := weekly * cfg.LoanPercentageOfWeeklyIncome
	for _, adjust := range loanAdjustments {
		amount = adjust(amount, s, weekly)
	}
	amount = math.Max(cfg.MinLoanAmount, math.Min(cfg.MaxLoanAmount, amount))
	return roundHalfUp(amount/loanRounding) * loanRounding
}

// EffectiveAPR compounds the weekly rate over 52 weeks, in percent.
func EffectiveAPR(weeklyRate float64) float64 {
	return round2((math.Pow(1+weeklyRate, 52) - 1) * 100)
}

// RiskScore is deliberately left unclamped.
func RiskScore(s CashFlowSummary) int {
	weekly := s.AverageWeeklyIncome()
	score := float64(riskBase)
	score += math.Min(riskIncomeCap, weekly/riskIncomeReference*riskIncomeCap)
	score += math.Max(0, riskVolatilityMax-s.Volatility/2)
	score += s.PositiveRatio() * riskConsistency
	return int(roundHalfUp(score))
}

// ComputeOffer prices a weekly credit line for an eligible applicant.
// asOf anchors the renewal date and the validity window.
func ComputeOffer(s CashFlowSummary, cfg OfferConfig, asOf time.Time) (CreditOffer, error) {
	if err := s.Validate(); err != nil {
		return CreditOffer{}, err
	}

	weekly := s.AverageWeeklyIncome()
	amount := LoanAmount(s, cfg)
	interest := round2(amount * cfg.WeeklyInterestRate)
	terms := RepaymentTerms{
		WeeklyPayment:      amount,
		WeeklyInterest:     interest,
		TotalWeeklyPayment: round2(amount + interest),
		EffectiveAPR:       EffectiveAPR(cfg.WeeklyInterestRate),
		RenewalDate:        asOf.Add(cfg.RenewalPeriod).Format("2006-01-02"),
		FlexibleTerms:      true,
	}
	factors := positiveFactors(s, weekly)

	return CreditOffer{
		LoanAmount:           amount,
		WeeklyInterestRate:   cfg.WeeklyInterestRate,
		RepaymentTerms:       terms,
		RiskScore:            RiskScore(s),
		Factors:              factors,
		Explanation:          explain(s, cfg, weekly, terms, factors),
		CompetitiveAdvantage: competitiveAdvantage(),
		OfferValidUntil:      asOf.Add(cfg.OfferValidity),
	}, nil
}

// bands are checked independently; a strong earner is also a steady one
func positiveFactors(s CashFlowSummary, weekly float64) []string {
	var out []string
	if weekly >= 800 {
		out = append(out, fmt.Sprintf("Strong weekly income of %s", formatEUR(weekly)))
	}
	if weekly >= 600 {
		out = append(out, "Steady weekly revenue stream")
	}
	if s.Volatility < 25 {
		out = append(out, fmt.Sprintf("Highly predictable cash flow (%.0f%% volatility)", s.Volatility))
	}
	if s.Volatility < 35 {
		out = append(out, "Stable cash flow pattern")
	}
	if s.PositiveCashFlowPeriods == s.TotalPeriods {
		out = append(out, "Positive cash flow in every period analysed")
	}
	if s.AverageNetCashFlow > 500 {
		out = append(out, fmt.Sprintf("Healthy monthly surplus of %s", formatEUR(s.AverageNetCashFlow)))
	}
	return append(out, "Good fit for a weekly credit line")
}

func explain(s CashFlowSummary, cfg OfferConfig, weekly float64, terms RepaymentTerms, factors []string) Explanation {
	strengths := factors
	if len(strengths) > 3 {
		strengths = strengths[:3]
	}
	return Explanation{
		Summary: fmt.Sprintf("Based on an average weekly income of %s we can offer a weekly credit line of %s.",
			formatEUR(weekly), formatEUR(terms.WeeklyPayment)),
		Calculation: fmt.Sprintf("%.0f%% of weekly income (%s), adjusted for %.0f%% volatility and %d of %d positive months, kept within %s–%s and rounded to %s.",
			cfg.LoanPercentageOfWeeklyIncome*100, formatEUR(weekly), s.Volatility,
			s.PositiveCashFlowPeriods, s.TotalPeriods,
			formatEUR(cfg.MinLoanAmount), formatEUR(cfg.MaxLoanAmount), formatEUR(loanRounding)),
		Strengths: append([]string(nil), strengths...),
		WeeklyBenefit: fmt.Sprintf("Draw %s at the start of the week and repay €%.2f (€%.2f interest) at its end; the line renews on %s.",
			formatEUR(terms.WeeklyPayment), terms.TotalWeeklyPayment, terms.WeeklyInterest, terms.RenewalDate),
		Comparison: "A bank overdraft typically takes two to four weeks to arrange; this offer was calculated instantly from your transaction history.",
	}
}

func competitiveAdvantage() CompetitiveAdvantage {
	return CompetitiveAdvantage{
		Title: "Why a weekly credit line",
		Points: []string{
			"Decision in seconds from real cash flow, not a credit bureau score",
			"Pay only for the weeks you use",
			"No collateral and no long-term commitment",
			"Limit grows as your cash flow grows",
		},
	}
}
