package creditengine

type referralRule struct {
	matches  func(s CashFlowSummary) bool
	referral func(reason string) Referral
}

// Priority order; the last rule always matches.
var referralRules = []referralRule{
	{
		matches: func(s CashFlowSummary) bool {
			return s.AverageIncome > 1000 && s.AverageIncome < 2000 && s.AverageNetCashFlow > 0
		},
		referral: func(string) Referral {
			return Referral{
				Partner:           "KfW ERP-Gründerkredit StartGeld",
				Reason:            "Your business is growing and profitable but still below our income threshold.",
				Actionable:        "Apply for KfW StartGeld through your Hausbank to finance the next growth step.",
				AlternativeAction: "Re-apply once your weekly income is consistently above €500.",
			}
		},
	},
	{
		matches: func(s CashFlowSummary) bool {
			return s.Volatility > 40 && s.AverageIncome > 3000
		},
		referral: func(string) Referral {
			return Referral{
				Partner:           "Invoice factoring",
				Reason:            "Your revenue is strong but arrives too irregularly for a weekly credit line.",
				Actionable:        "Sell open invoices to a factoring provider to get paid within 24 hours.",
				AlternativeAction: "Move customers to retainers or recurring billing to smooth income, then re-apply.",
			}
		},
	},
	{
		matches: func(s CashFlowSummary) bool { return s.AverageNetCashFlow <= 0 },
		referral: func(string) Referral {
			return Referral{
				Partner:           "IHK business advisory",
				Reason:            "Your expenses exceed your income, and additional credit would not change that.",
				Actionable:        "Book a free cash flow consultation with your local chamber of commerce.",
				AlternativeAction: "Reduce fixed costs or adjust pricing until monthly net cash flow is positive.",
			}
		},
	},
	{
		matches: func(s CashFlowSummary) bool { return s.AverageIncome < 1000 },
		referral: func(string) Referral {
			return Referral{
				Partner:           "Gründungszuschuss (Agentur für Arbeit)",
				Reason:            "Your business is at a very early stage.",
				Actionable:        "Check whether you qualify for the start-up grant from the Agentur für Arbeit.",
				AlternativeAction: "Build at least three months of steady revenue, then re-apply.",
			}
		},
	},
	{
		matches: func(CashFlowSummary) bool { return true },
		referral: func(reason string) Referral {
			return Referral{
				Partner:           "Traditional bank overdraft",
				Reason:            reason + ". A classic business overdraft may fit your profile better.",
				Actionable:        "Ask your Hausbank for a Kontokorrentkredit based on your annual accounts.",
				AlternativeAction: "Improve the factors marked as failed and re-apply in a few weeks.",
			}
		},
	},
}

// RecommendReferral picks exactly one alternative for a rejected applicant.
func RecommendReferral(s CashFlowSummary, rejectionReason string) Referral {
	for _, r := range referralRules {
		if r.matches(s) {
			return r.referral(rejectionReason)
		}
	}
	// unreachable: the last rule matches everything
	return Referral{}
}
