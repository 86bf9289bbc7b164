package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"itinera/internal/budget"
	"itinera/internal/models/db_models"
	"itinera/internal/repositories"
	"itinera/pkg/logger"
	"itinera/pkg/utils"
)

type BudgetServiceInterface interface {
	Summary(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*budget.Summary, error)
	// Sync recomputes the rollup and stores the actual spend on the trip and
	// its days.
	Sync(ctx context.Context, tripID uuid.UUID) (*budget.Summary, error)
	// Export renders the summary as a workbook and a suggested file name.
	Export(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*excelize.File, string, error)
}

type BudgetService struct {
	tripRepository     repositories.TripRepository
	dayRepository      repositories.DayRepository
	activityRepository repositories.ActivityRepository
}

func NewBudgetService(
	tripRepository repositories.TripRepository,
	dayRepository repositories.DayRepository,
	activityRepository repositories.ActivityRepository,
) BudgetServiceInterface {
	return &BudgetService{
		tripRepository:     tripRepository,
		dayRepository:      dayRepository,
		activityRepository: activityRepository,
	}
}

type tripState struct {
	trip       *db_models.Trip
	days       []db_models.Day
	activities []db_models.Activity
}

func (st tripState) summary() budget.Summary {
	days := make([]budget.DayCosts, 0, len(st.days))
	for _, d := range st.days {
		days = append(days, budget.DayCosts{ID: d.ID, DayNumber: d.DayNumber})
	}
	activities := make([]budget.ActivityCosts, 0, len(st.activities))
	for _, a := range st.activities {
		activities = append(activities, budget.ActivityCosts{
			DayID:         a.DayID,
			EstimatedCost: a.EstimatedCost,
			ActualCost:    a.ActualCost,
		})
	}
	return budget.Compute(budget.TripCosts{ID: st.trip.ID, TotalBudget: st.trip.TotalBudget}, days, activities)
}

func (s *BudgetService) load(ctx context.Context, tripID uuid.UUID) (*tripState, error) {
	trip, err := s.tripRepository.GetByID(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	days, err := s.dayRepository.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	activities, err := s.activityRepository.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	return &tripState{trip: trip, days: days, activities: activities}, nil
}

func (s *BudgetService) loadVisible(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*tripState, error) {
	st, err := s.load(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if st.trip.OwnerID != ownerID && !st.trip.IsPublic {
		return nil, utils.ErrForbidden
	}
	return st, nil
}

func (s *BudgetService) Summary(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*budget.Summary, error) {
	st, err := s.loadVisible(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}
	sum := st.summary()
	return &sum, nil
}

func (s *BudgetService) Sync(ctx context.Context, tripID uuid.UUID) (*budget.Summary, error) {
	st, err := s.load(ctx, tripID)
	if err != nil {
		return nil, err
	}
	sum := st.summary()

	actuals := sum.DayActuals()
	for i := range st.days {
		st.days[i].ActualSpent = actuals[st.days[i].ID]
	}
	st.trip.ActualSpent = sum.TotalActual

	if err := s.tripRepository.SaveSpend(ctx, st.trip, st.days); err != nil {
		logger.LogError(logger.GetLogger(), "services", "BudgetService.Sync", "SaveSpend", tripID.String(), err)
		return nil, utils.DatabaseError(err)
	}
	return &sum, nil
}

func (s *BudgetService) Export(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*excelize.File, string, error) {
	st, err := s.loadVisible(ctx, ownerID, tripID)
	if err != nil {
		return nil, "", err
	}
	sum := st.summary()

	f := excelize.NewFile()
	if err := writeSummarySheet(f, st.trip, sum); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeActivitiesSheet(f, st); err != nil {
		return nil, "", fmt.Errorf("failed to create activities sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_Budget_%s.xlsx", cleanFileName(st.trip.Title), time.Now().Format(utils.DateLayout))
	return f, filename, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
}

func writeSummarySheet(f *excelize.File, trip *db_models.Trip, sum budget.Summary) error {
	sheet := "Summary"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Trip", trip.Title},
		{"Dates", utils.FormatDate(trip.StartDate) + " to " + utils.FormatDate(trip.EndDate)},
		{"Total budget", sum.TotalBudget.InexactFloat64()},
		{"Total estimated", sum.TotalEstimated.InexactFloat64()},
		{"Total actual", sum.TotalActual.InexactFloat64()},
		{"Difference", sum.Difference.InexactFloat64()},
		{"Percent used", sum.PercentUsed.InexactFloat64()},
		{"Over budget", sum.OverBudget},
	}
	for i, r := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("A%d", len(rows)), style); err != nil {
		return err
	}

	start := len(rows) + 2
	header := []any{"Day", "Estimated", "Actual", "Difference"}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", start), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", start), fmt.Sprintf("D%d", start), style); err != nil {
		return err
	}
	for i, d := range sum.ByDay {
		row := []any{d.DayNumber, d.Estimated.InexactFloat64(), d.Actual.InexactFloat64(), d.Difference.InexactFloat64()}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", start+1+i), &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "D", 18)
}

func writeActivitiesSheet(f *excelize.File, st *tripState) error {
	sheet := "Activities"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	header := []any{"Day", "Order", "Title", "Location", "Start", "End", "Estimated", "Actual"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", style); err != nil {
		return err
	}

	dayNumbers := make(map[uuid.UUID]int, len(st.days))
	for _, d := range st.days {
		dayNumbers[d.ID] = d.DayNumber
	}

	for i, a := range st.activities {
		row := []any{
			dayNumbers[a.DayID],
			a.OrderIndex + 1,
			a.Title,
			a.Location,
			derefOr(a.StartTime, ""),
			derefOr(a.EndTime, ""),
			nullableAmount(a.EstimatedCost.Valid, a.EstimatedCost.Decimal.InexactFloat64()),
			nullableAmount(a.ActualCost.Valid, a.ActualCost.Decimal.InexactFloat64()),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "H", 16)
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func nullableAmount(valid bool, v float64) any {
	if !valid {
		return ""
	}
	return v
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func cleanFileName(name string) string {
	cleaned := strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_")
	if cleaned == "" {
		return "Trip"
	}
	return cleaned
}
