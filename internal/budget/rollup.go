// Package budget derives trip, day and activity cost rollups. Nothing here is
// cached: every summary is recomputed from the activities passed in.
package budget

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TripCosts, DayCosts and ActivityCosts are the leaf views the rollup needs.
type TripCosts struct {
	ID          uuid.UUID
	TotalBudget decimal.NullDecimal
}

type DayCosts struct {
	ID        uuid.UUID
	DayNumber int
}

type ActivityCosts struct {
	DayID         uuid.UUID
	EstimatedCost decimal.NullDecimal
	ActualCost    decimal.NullDecimal
}

type DayBudget struct {
	DayID      uuid.UUID       `json:"day_id"`
	DayNumber  int             `json:"day_number"`
	Estimated  decimal.Decimal `json:"estimated"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
}

type Summary struct {
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalEstimated decimal.Decimal `json:"total_estimated"`
	TotalActual    decimal.Decimal `json:"total_actual"`
	Difference     decimal.Decimal `json:"difference"`
	PercentUsed    decimal.Decimal `json:"percent_used"`
	OverBudget     bool            `json:"over_budget"`
	ByDay          []DayBudget     `json:"by_day"`
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Compute builds the summary. Activities whose day is not in days are
// ignored. Days come back ordered by day number.
func Compute(trip TripCosts, days []DayCosts, activities []ActivityCosts) Summary {
	type sums struct{ estimated, actual decimal.Decimal }
	perDay := make(map[uuid.UUID]*sums, len(days))
	for _, d := range days {
		perDay[d.ID] = &sums{estimated: decimal.Zero, actual: decimal.Zero}
	}
	for _, a := range activities {
		s, ok := perDay[a.DayID]
		if !ok {
			continue
		}
		s.estimated = s.estimated.Add(orZero(a.EstimatedCost))
		s.actual = s.actual.Add(orZero(a.ActualCost))
	}

	ordered := make([]DayCosts, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DayNumber < ordered[j].DayNumber })

	out := Summary{
		TotalBudget:    orZero(trip.TotalBudget),
		TotalEstimated: decimal.Zero,
		TotalActual:    decimal.Zero,
		PercentUsed:    decimal.Zero,
		ByDay:          make([]DayBudget, 0, len(ordered)),
	}
	for _, d := range ordered {
		s := perDay[d.ID]
		out.ByDay = append(out.ByDay, DayBudget{
			DayID:      d.ID,
			DayNumber:  d.DayNumber,
			Estimated:  s.estimated,
			Actual:     s.actual,
			Difference: s.estimated.Sub(s.actual),
		})
		out.TotalEstimated = out.TotalEstimated.Add(s.estimated)
		out.TotalActual = out.TotalActual.Add(s.actual)
	}

	out.Difference = out.TotalBudget.Sub(out.TotalActual)
	if out.TotalBudget.IsPositive() {
		out.PercentUsed = out.TotalActual.Div(out.TotalBudget).Mul(hundred).Round(2)
		out.OverBudget = out.TotalActual.GreaterThan(out.TotalBudget)
	}
	return out
}

// DayActuals returns the actual spend per day, for writing back into the
// cached actual_spent columns.
func (s Summary) DayActuals() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(s.ByDay))
	for _, d := range s.ByDay {
		out[d.DayID] = d.Actual
	}
	return out
}
