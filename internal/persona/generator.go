package persona

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"cashflow-bridge/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// WindowDays is the length of the generated history, ending on asOf.
const WindowDays = 90

type generator struct {
	rng *rand.Rand
	out []transaction.Transaction
}

type dayFunc func(g *generator, day time.Time, i int)

var archetypes = map[Archetype]dayFunc{
	SteadyWeekly: steadyWeekly,
	MonthlySpike: monthlySpike,
	Seasonal:     seasonal,
	EarlyStage:   earlyStage,
	Declining:    declining,
}

// Generate synthesises WindowDays of history for an archetype. The shape is
// fixed per archetype; amounts vary with rng, so a seeded rng reproduces the
// exact stream. AccountID is left for the caller to set.
func Generate(a Archetype, asOf time.Time, rng *rand.Rand) ([]transaction.Transaction, error) {
	fn, ok := archetypes[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, a)
	}

	g := &generator{rng: rng}
	end := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(WindowDays - 1))
	for i := 0; i < WindowDays; i++ {
		fn(g, start.AddDate(0, 0, i), i)
	}
	return g.out, nil
}

func (g *generator) income(day time.Time, amount float64, desc string) {
	g.out = append(g.out, transaction.Transaction{
		Date:        day,
		Amount:      decimal.NewFromFloat(amount).Round(2),
		Description: desc,
		Category:    transaction.CategoryIncome,
		Type:        transaction.TypeIncome,
	})
}

func (g *generator) expense(day time.Time, amount float64, cat transaction.Category, desc string) {
	g.out = append(g.out, transaction.Transaction{
		Date:        day,
		Amount:      decimal.NewFromFloat(-amount).Round(2),
		Description: desc,
		Category:    cat,
		Type:        transaction.TypeExpense,
	})
}

// around returns base +/- spread (as a fraction), uniformly
func (g *generator) around(base, spread float64) float64 {
	return base * (1 + (g.rng.Float64()*2-1)*spread)
}

func (g *generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func weekday(d time.Time) bool {
	return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
}

func steadyWeekly(g *generator, day time.Time, _ int) {
	if weekday(day) {
		g.income(day, g.around(190, 0.10), "Card sales")
	}
	if day.Weekday() == time.Monday {
		g.expense(day, g.around(420, 0.10), transaction.CategorySupplies, "Coffee & bakery supplier")
	}
	switch day.Day() {
	case 1:
		g.expense(day, 1600, transaction.CategoryRent, "Rent")
	case 15:
		g.expense(day, g.around(180, 0.05), transaction.CategoryUtilities, "Electricity & water")
	}
}

func monthlySpike(g *generator, day time.Time, _ int) {
	if day.Weekday() == time.Friday {
		g.income(day, g.around(250, 0.20), "Retainer payment")
	}
	if day.AddDate(0, 0, 1).Day() == 1 {
		g.income(day, g.around(3200, 0.10), "Client project invoice")
	}
	if day.Weekday() == time.Wednesday {
		g.expense(day, 60, transaction.CategoryOther, "Software subscriptions")
	}
	switch day.Day() {
	case 1:
		g.expense(day, 1100, transaction.CategoryRent, "Studio rent")
	case 15:
		g.expense(day, g.around(120, 0.05), transaction.CategoryUtilities, "Internet & power")
	}
}

// seasonFactor is 0 in January and 1 in July
func seasonFactor(m time.Month) float64 {
	return (1 - math.Cos(2*math.Pi*float64(m-1)/12)) / 2
}

func seasonal(g *generator, day time.Time, _ int) {
	expected := 60 + 180*seasonFactor(day.Month())
	g.income(day, g.around(expected, 0.25), "Counter sales")
	if day.Weekday() == time.Monday {
		g.expense(day, g.around(expected*7*0.3, 0.10), transaction.CategorySupplies, "Ingredients")
	}
	switch day.Day() {
	case 1:
		g.expense(day, 1200, transaction.CategoryRent, "Kiosk lease")
	case 15:
		g.expense(day, g.around(150, 0.10), transaction.CategoryUtilities, "Freezer power")
	}
}

func earlyStage(g *generator, day time.Time, _ int) {
	switch day.Weekday() {
	case time.Tuesday, time.Friday:
		g.income(day, g.between(60, 140), "Marketplace payout")
	case time.Monday:
		g.expense(day, g.between(40, 90), transaction.CategorySupplies, "Packaging & stock")
	}
	if day.Day() == 1 {
		g.expense(day, 49, transaction.CategoryOther, "Shop platform fee")
	}
}

func declining(g *generator, day time.Time, i int) {
	if weekday(day) {
		trend := 120 - 70*float64(i)/float64(WindowDays-1)
		g.income(day, g.around(trend, 0.10), "Till takings")
		g.expense(day, g.around(90, 0.05), transaction.CategorySupplies, "Stock purchases")
	}
	switch day.Day() {
	case 1:
		g.expense(day, 1400, transaction.CategoryRent, "Shop rent")
	case 15:
		g.expense(day, g.around(200, 0.05), transaction.CategoryUtilities, "Heating & power")
	}
}
