package creditengine

import (
	"fmt"
	"math"
	"sort"

	"cashflow-bridge/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// VolatilityUndefined is reported when the mean net cash flow is exactly zero
// and the coefficient of variation has no value. It is far above any sane
// MaxVolatility, so the volatility check always warns.
const VolatilityUndefined = 999

// MonthlyFlows buckets transactions by calendar month, ascending by period.
// Months without transactions do not appear.
func MonthlyFlows(txs []transaction.Transaction) ([]MonthlyFlow, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: no transactions", ErrInsufficientData)
	}

	type bucket struct{ income, expenses decimal.Decimal }
	buckets := make(map[string]*bucket)
	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d (%s): %w", i, t.Date.Format("2006-01-02"), err)
		}
		b, ok := buckets[t.MonthKey()]
		if !ok {
			b = &bucket{}
			buckets[t.MonthKey()] = b
		}
		if t.Type == transaction.TypeIncome {
			b.income = b.income.Add(t.Amount)
		} else {
			b.expenses = b.expenses.Add(t.Amount.Abs())
		}
	}

	periods := make([]string, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	out := make([]MonthlyFlow, 0, len(periods))
	for _, p := range periods {
		b := buckets[p]
		out = append(out, MonthlyFlow{
			Period:   p,
			Income:   b.income.InexactFloat64(),
			Expenses: b.expenses.InexactFloat64(),
		})
	}
	return out, nil
}

// Summarize derives the engine input from monthly flows.
func Summarize(flows []MonthlyFlow) (CashFlowSummary, error) {
	n := len(flows)
	if n == 0 {
		return CashFlowSummary{}, fmt.Errorf("%w: no periods", ErrInsufficientData)
	}

	// sums in decimal so a true zero mean is detected as zero
	var income, expenses, net decimal.Decimal
	nets := make([]float64, n)
	positive := 0
	for i, f := range flows {
		in, ex := decimal.NewFromFloat(f.Income), decimal.NewFromFloat(f.Expenses)
		income = income.Add(in)
		expenses = expenses.Add(ex)
		monthNet := in.Sub(ex)
		net = net.Add(monthNet)
		nets[i] = monthNet.InexactFloat64()
		if monthNet.IsPositive() {
			positive++
		}
	}

	count := float64(n)
	meanNet := net.InexactFloat64() / count

	volatility := float64(VolatilityUndefined)
	if !net.IsZero() {
		volatility = roundHalfUp(stdDev(nets, meanNet) / math.Abs(meanNet) * 100)
	}

	return CashFlowSummary{
		AverageIncome:           roundHalfUp(income.InexactFloat64() / count),
		AverageExpenses:         roundHalfUp(expenses.InexactFloat64() / count),
		AverageNetCashFlow:      roundHalfUp(meanNet),
		Volatility:              volatility,
		PositiveCashFlowPeriods: positive,
		TotalPeriods:            n,
	}, nil
}

// Aggregate is MonthlyFlows followed by Summarize.
func Aggregate(txs []transaction.Transaction) (CashFlowSummary, error) {
	flows, err := MonthlyFlows(txs)
	if err != nil {
		return CashFlowSummary{}, err
	}
	return Summarize(flows)
}

// population standard deviation
func stdDev(xs []float64, mean float64) float64 {
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// roundHalfUp rounds .5 towards positive infinity, also for negative values.
func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
