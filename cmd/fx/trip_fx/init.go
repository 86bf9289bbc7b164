package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(
	provideTripRepo, provideDayRepo, provideActivityRepo,
	provideBudgetService, provideTripService)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideDayRepo(db *gorm.DB) repositories.DayRepository {
	return repositories.NewDayRepository(db)
}

func provideActivityRepo(db *gorm.DB) repositories.ActivityRepository {
	return repositories.NewActivityRepository(db)
}

func provideBudgetService(
	tripRepo repositories.TripRepository,
	dayRepo repositories.DayRepository,
	activityRepo repositories.ActivityRepository,
) services.BudgetServiceInterface {
	return services.NewBudgetService(tripRepo, dayRepo, activityRepo)
}

func provideTripService(
	tripRepo repositories.TripRepository,
	dayRepo repositories.DayRepository,
	activityRepo repositories.ActivityRepository,
	wishlistRepo repositories.WishlistRepository,
	budgetService services.BudgetServiceInterface,
) services.TripServiceInterface {
	return services.NewTripService(tripRepo, dayRepo, activityRepo, wishlistRepo, budgetService)
}
