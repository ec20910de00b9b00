package persona

import (
	"errors"
	"fmt"
)

var ErrUnknownPersona = errors.New("unknown persona")

type Archetype string

const (
	SteadyWeekly Archetype = "steady_weekly"
	MonthlySpike Archetype = "monthly_spike"
	Seasonal     Archetype = "seasonal"
	EarlyStage   Archetype = "early_stage"
	Declining    Archetype = "declining"
)

type Persona struct {
	Archetype   Archetype `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	Description string    `json:"description"`
}

var catalog = []Persona{
	{SteadyWeekly, "Café Morgenrot", "Food & beverage", "Consistent weekday sales, weekly supplier orders, fixed rent."},
	{MonthlySpike, "Pixelwerk Studio", "Design agency", "Small weekly retainers plus one large client invoice at month end."},
	{Seasonal, "Eisdiele am See", "Seasonal retail", "Revenue follows the weather and peaks in summer."},
	{EarlyStage, "Kleinkram Online", "E-commerce", "A young shop with a handful of orders a week."},
	{Declining, "Buchhandlung Alt", "Retail", "Falling footfall against fixed costs."},
}

// Catalog lists the personas in display order.
func Catalog() []Persona { return append([]Persona(nil), catalog...) }

func Lookup(archetype string) (Persona, error) {
	for _, p := range catalog {
		if string(p.Archetype) == archetype {
			return p, nil
		}
	}
	return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, archetype)
}
