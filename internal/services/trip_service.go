package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/logger"
	"itinera/pkg/utils"
)

// MaxTripDays bounds the inclusive length of a trip.
const MaxTripDays = 30

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, ownerID uuid.UUID, in request_models.TripInput) (*db_models.Trip, error)
	// CreateTripFromWishlist seeds destinations, budget and description from
	// the owner's unvisited wishlist. The trip does not follow later wishlist
	// changes.
	CreateTripFromWishlist(ctx context.Context, ownerID uuid.UUID, in request_models.TripInput) (*db_models.Trip, error)
	ListTrips(ctx context.Context, ownerID uuid.UUID, page int, pageSize int) ([]db_models.Trip, error)
	GetTripDetail(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*response_models.TripDetail, error)
	UpdateTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID, patch request_models.TripPatch) (*db_models.Trip, error)
	DeleteTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) error
	IncrementViews(ctx context.Context, tripID uuid.UUID) error
	CopyTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*db_models.Trip, error)

	AddDay(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID, in request_models.DayInput) (*db_models.Day, error)
	UpdateDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, in request_models.DayInput) (*db_models.Day, error)
	DeleteDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID) error
	ReorderDays(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID, dayIDs []uuid.UUID) ([]db_models.Day, error)

	AddActivity(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, in request_models.ActivityInput) (*db_models.Activity, error)
	UpdateActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID, in request_models.ActivityInput) (*db_models.Activity, error)
	DeleteActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID) error
	ReorderActivities(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, activityIDs []uuid.UUID) ([]db_models.Activity, error)
	MoveActivity(ctx context.Context, ownerID uuid.UUID, activityID uuid.UUID, targetDayID uuid.UUID) (*db_models.Activity, error)
	AddWishlistItemToDay(ctx context.Context, ownerID uuid.UUID, dayID uuid.UUID, itemID uuid.UUID) (*db_models.Activity, error)
}

type TripService struct {
	tripRepository     repositories.TripRepository
	dayRepository      repositories.DayRepository
	activityRepository repositories.ActivityRepository
	wishlistRepository repositories.WishlistRepository
	budgetService      BudgetServiceInterface
}

func NewTripService(
	tripRepository repositories.TripRepository,
	dayRepository repositories.DayRepository,
	activityRepository repositories.ActivityRepository,
	wishlistRepository repositories.WishlistRepository,
	budgetService BudgetServiceInterface,
) TripServiceInterface {
	return &TripService{
		tripRepository:     tripRepository,
		dayRepository:      dayRepository,
		activityRepository: activityRepository,
		wishlistRepository: wishlistRepository,
		budgetService:      budgetService,
	}
}

func validateTripInput(in request_models.TripInput) (int, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
	}
	if in.TotalBudget.Valid && in.TotalBudget.Decimal.IsNegative() {
		return 0, fmt.Errorf("%w: total budget must not be negative", utils.ErrInvalidInput)
	}
	return validateDateRange(in.StartDate, in.EndDate)
}

func (s *TripService) CreateTrip(ctx context.Context, ownerID uuid.UUID, in request_models.TripInput) (*db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}
	numDays, err := validateTripInput(in)
	if err != nil {
		return nil, err
	}

	trip := &db_models.Trip{
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		StartDate:     db_models.DateOnly(in.StartDate),
		EndDate:       db_models.DateOnly(in.EndDate),
		Destinations:  pq.StringArray{},
		TotalBudget:   in.TotalBudget,
		ActualSpent:   decimal.Zero,
		CoverImageURL: in.CoverImageURL,
		IsPublic:      in.IsPublic,
	}
	return s.insertTrip(ctx, trip, numDays)
}

func (s *TripService) CreateTripFromWishlist(ctx context.Context, ownerID uuid.UUID, in request_models.TripInput) (*db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}
	numDays, err := validateTripInput(in)
	if err != nil {
		return nil, err
	}

	items, err := s.wishlistRepository.ListUnvisited(ctx, ownerID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}

	destinations := pq.StringArray{}
	seen := make(map[string]bool)
	total := decimal.Zero
	for _, item := range items {
		if loc := item.PlaceLocation; loc != "" && !seen[loc] {
			seen[loc] = true
			destinations = append(destinations, loc)
		}
		if item.PlaceEstimatedCost.Valid {
			total = total.Add(item.PlaceEstimatedCost.Decimal)
		}
	}

	budget := in.TotalBudget
	if !budget.Valid {
		budget = decimal.NewNullDecimal(total)
	}
	description := in.Description
	if description == "" && len(destinations) > 0 {
		description = "Trip to " + strings.Join(destinations, ", ")
	}

	trip := &db_models.Trip{
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(in.Title),
		Description:   description,
		StartDate:     db_models.DateOnly(in.StartDate),
		EndDate:       db_models.DateOnly(in.EndDate),
		Destinations:  destinations,
		TotalBudget:   budget,
		ActualSpent:   decimal.Zero,
		CoverImageURL: in.CoverImageURL,
		IsPublic:      in.IsPublic,
	}
	return s.insertTrip(ctx, trip, numDays)
}

func (s *TripService) insertTrip(ctx context.Context, trip *db_models.Trip, numDays int) (*db_models.Trip, error) {
	days := make([]db_models.Day, 0, numDays)
	for n := 1; n <= numDays; n++ {
		days = append(days, db_models.NewDay(uuid.Nil, n, trip.StartDate))
	}

	if err := s.tripRepository.CreateWithDays(ctx, trip, days); err != nil {
		logger.LogError(logger.GetLogger(), "services", "TripService.CreateTrip", "CreateWithDays", trip.Title, err)
		return nil, utils.DatabaseError(err)
	}
	return trip, nil
}

func (s *TripService) ListTrips(ctx context.Context, ownerID uuid.UUID, page int, pageSize int) ([]db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	trips, err := s.tripRepository.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if trips == nil {
		return []db_models.Trip{}, nil
	}
	return trips, nil
}

func (s *TripService) GetTripDetail(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*response_models.TripDetail, error) {
	trip, err := s.tripRepository.GetDetail(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	if trip.OwnerID != ownerID && !trip.IsPublic {
		return nil, utils.ErrForbidden
	}

	summary, err := s.budgetService.Summary(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}
	return &response_models.TripDetail{Trip: trip, Budget: *summary}, nil
}

func (s *TripService) UpdateTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID, patch request_models.TripPatch) (*db_models.Trip, error) {
	trip, err := s.ownedTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
		}
		trip.Title = title
	}
	if patch.Description != nil {
		trip.Description = *patch.Description
	}
	if patch.TotalBudget != nil {
		if patch.TotalBudget.IsNegative() {
			return nil, fmt.Errorf("%w: total budget must not be negative", utils.ErrInvalidInput)
		}
		trip.TotalBudget = decimal.NewNullDecimal(*patch.TotalBudget)
	}
	if patch.CoverImageURL != nil {
		trip.CoverImageURL = *patch.CoverImageURL
	}
	if patch.IsPublic != nil {
		trip.IsPublic = *patch.IsPublic
	}

	reschedule := false
	if patch.StartDate != nil && !db_models.DateOnly(*patch.StartDate).Equal(db_models.DateOnly(trip.StartDate)) {
		trip.StartDate = db_models.DateOnly(*patch.StartDate)
		reschedule = true
	}
	if patch.EndDate != nil && !db_models.DateOnly(*patch.EndDate).Equal(db_models.DateOnly(trip.EndDate)) {
		trip.EndDate = db_models.DateOnly(*patch.EndDate)
		reschedule = true
	}

	if !reschedule {
		if err := s.tripRepository.Update(ctx, trip); err != nil {
			return nil, utils.DatabaseError(err)
		}
		return trip, nil
	}

	if _, err := validateDateRange(trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}
	if err := s.tripRepository.UpdateSchedule(ctx, trip); err != nil {
		return nil, utils.DatabaseError(err)
	}
	if _, err := s.budgetService.Sync(ctx, trip.ID); err != nil {
		return nil, err
	}
	return s.reloadTrip(ctx, trip.ID)
}

func (s *TripService) DeleteTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) error {
	if _, err := s.ownedTrip(ctx, ownerID, tripID); err != nil {
		return err
	}
	if err := s.tripRepository.Delete(ctx, tripID); err != nil {
		return utils.DatabaseError(err)
	}
	return nil
}

func (s *TripService) IncrementViews(ctx context.Context, tripID uuid.UUID) error {
	trip, err := s.tripRepository.GetByID(ctx, tripID)
	if err != nil {
		return utils.DatabaseError(err)
	}
	if trip == nil {
		return utils.ErrTripNotFound
	}
	if err := s.tripRepository.IncrementViews(ctx, tripID); err != nil {
		return utils.DatabaseError(err)
	}
	return nil
}

// CopyTrip duplicates a public (or own) trip for ownerID, including days and
// planned activities. Actual costs and bookings stay with the original.
func (s *TripService) CopyTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}

	src, err := s.tripRepository.GetDetail(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if src == nil {
		return nil, utils.ErrTripNotFound
	}
	if src.OwnerID != ownerID && !src.IsPublic {
		return nil, utils.ErrForbidden
	}

	trip := &db_models.Trip{
		OwnerID:       ownerID,
		Title:         src.Title + " (Copy)",
		Description:   src.Description,
		StartDate:     src.StartDate,
		EndDate:       src.EndDate,
		Destinations:  append(pq.StringArray{}, src.Destinations...),
		TotalBudget:   src.TotalBudget,
		ActualSpent:   decimal.Zero,
		CoverImageURL: src.CoverImageURL,
	}

	days := make([]db_models.Day, 0, len(src.Days))
	for _, d := range src.Days {
		day := db_models.Day{
			DayNumber:       d.DayNumber,
			Date:            d.Date,
			Title:           d.Title,
			Notes:           d.Notes,
			EstimatedBudget: d.EstimatedBudget,
			ActualSpent:     decimal.Zero,
		}
		for _, a := range d.Activities {
			day.Activities = append(day.Activities, db_models.Activity{
				Title:         a.Title,
				Description:   a.Description,
				StartTime:     a.StartTime,
				EndTime:       a.EndTime,
				Location:      a.Location,
				Latitude:      a.Latitude,
				Longitude:     a.Longitude,
				PlaceType:     a.PlaceType,
				EstimatedCost: a.EstimatedCost,
				Notes:         a.Notes,
				OrderIndex:    a.OrderIndex,
			})
		}
		days = append(days, day)
	}

	if err := s.tripRepository.CreateWithDays(ctx, trip, days); err != nil {
		logger.LogError(logger.GetLogger(), "services", "TripService.CopyTrip", "CreateWithDays", tripID.String(), err)
		return nil, utils.DatabaseError(err)
	}
	if src.OwnerID != ownerID {
		if err := s.tripRepository.IncrementCopies(ctx, src.ID); err != nil {
			logger.LogError(logger.GetLogger(), "services", "TripService.CopyTrip", "IncrementCopies", tripID.String(), err)
		}
	}
	return trip, nil
}

// validateDateRange returns the inclusive number of days.
func validateDateRange(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start and end dates are required", utils.ErrInvalidInput)
	}
	span := db_models.DaysBetween(start, end)
	if span < 0 {
		return 0, utils.ErrInvalidDateRange
	}
	if span+1 > MaxTripDays {
		return 0, fmt.Errorf("%w: %d days, at most %d", utils.ErrTripTooLong, span+1, MaxTripDays)
	}
	return span + 1, nil
}

func (s *TripService) ownedTrip(ctx context.Context, ownerID uuid.UUID, tripID uuid.UUID) (*db_models.Trip, error) {
	if ownerID == uuid.Nil {
		return nil, utils.ErrUnauthenticated
	}
	trip, err := s.tripRepository.GetByID(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	if trip.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}
	return trip, nil
}

func (s *TripService) reloadTrip(ctx context.Context, tripID uuid.UUID) (*db_models.Trip, error) {
	trip, err := s.tripRepository.GetByID(ctx, tripID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}
