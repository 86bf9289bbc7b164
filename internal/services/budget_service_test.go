package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/internal/models/request_models"
	"itinera/pkg/utils"
)

func TestBudgetService_Summary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()

	in := tripInput("2026-03-01", "2026-03-02")
	in.TotalBudget = decimal.NewNullDecimal(money("100"))
	trip, err := f.tripSvc.CreateTrip(ctx, owner, in)
	require.NoError(t, err)
	days := mustDays(t, f, trip.ID)

	_, err = f.tripSvc.AddActivity(ctx, owner, days[0].ID, request_models.ActivityInput{
		Title: ptr("Hotel"), EstimatedCost: ptr(money("60")), ActualCost: ptr(money("70")),
	})
	require.NoError(t, err)
	_, err = f.tripSvc.AddActivity(ctx, owner, days[1].ID, request_models.ActivityInput{
		Title: ptr("Museum"), EstimatedCost: ptr(money("10")),
	})
	require.NoError(t, err)

	sum, err := f.budget.Summary(ctx, owner, trip.ID)
	require.NoError(t, err)
	assert.True(t, money("70").Equal(sum.TotalEstimated))
	assert.True(t, money("70").Equal(sum.TotalActual))
	assert.True(t, money("30").Equal(sum.Difference))
	assert.True(t, money("70").Equal(sum.PercentUsed))
	assert.False(t, sum.OverBudget)
	require.Len(t, sum.ByDay, 2)
	assert.True(t, money("-10").Equal(sum.ByDay[0].Difference))
	assert.True(t, money("10").Equal(sum.ByDay[1].Difference))

	_, err = f.budget.Summary(ctx, uuid.New(), trip.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
	_, err = f.budget.Summary(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestBudgetService_Sync_WritesSpend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	trip := mustCreateTrip(t, f, owner, "2026-03-01", "2026-03-02")
	days := mustDays(t, f, trip.ID)

	// written straight to the store, so nothing has synced yet
	_, err := f.tripSvc.AddActivity(ctx, owner, days[1].ID, request_models.ActivityInput{Title: ptr("Boat")})
	require.NoError(t, err)
	for id, a := range f.store.activities {
		a.ActualCost = decimal.NewNullDecimal(money("42"))
		f.store.activities[id] = a
	}

	sum, err := f.budget.Sync(ctx, trip.ID)
	require.NoError(t, err)
	assert.True(t, money("42").Equal(sum.TotalActual))

	stored, _ := f.trips.GetByID(ctx, trip.ID)
	assert.True(t, money("42").Equal(stored.ActualSpent))
	day0, _ := f.days.GetByID(ctx, days[0].ID)
	day1, _ := f.days.GetByID(ctx, days[1].ID)
	assert.True(t, day0.ActualSpent.IsZero())
	assert.True(t, money("42").Equal(day1.ActualSpent))
}

func TestBudgetService_Export(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()

	in := tripInput("2026-03-01", "2026-03-02")
	in.Title = "Da Lat / Nha Trang!"
	in.TotalBudget = decimal.NewNullDecimal(money("200"))
	trip, err := f.tripSvc.CreateTrip(ctx, owner, in)
	require.NoError(t, err)
	days := mustDays(t, f, trip.ID)
	_, err = f.tripSvc.AddActivity(ctx, owner, days[0].ID, request_models.ActivityInput{
		Title: ptr("Dinner"), StartTime: ptr("19:00"), EstimatedCost: ptr(money("25")),
	})
	require.NoError(t, err)

	wb, filename, err := f.budget.Export(ctx, owner, trip.ID)
	require.NoError(t, err)
	defer wb.Close()

	assert.True(t, strings.HasPrefix(filename, "Da_Lat_Nha_Trang_Budget_"), filename)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.Equal(t, []string{"Summary", "Activities"}, wb.GetSheetList())

	title, err := wb.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Da Lat / Nha Trang!", title)

	rows, err := wb.GetRows("Activities")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Day", "Order", "Title", "Location", "Start", "End", "Estimated", "Actual"}, rows[0])
	assert.Equal(t, "Dinner", rows[1][2])
	assert.Equal(t, "19:00", rows[1][4])

	_, _, err = f.budget.Export(ctx, uuid.New(), trip.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "Trip", cleanFileName("!!!"))
	assert.Equal(t, "Summer_2026", cleanFileName("Summer 2026"))
	assert.Equal(t, "a-b_c", cleanFileName("a-b c"))
}
