package utils

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("an owning user is required")
	ErrForbidden           = errors.New("resource belongs to another user")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidPage         = errors.New("invalid page parameter")
	ErrInvalidPageSize     = errors.New("invalid page size parameter")
	ErrInvalidPlaceID      = errors.New("invalid place id")
	ErrInvalidDateRange    = errors.New("end date is before start date")
	ErrTripTooLong         = errors.New("trip exceeds the maximum number of days")
	ErrProviderUnavailable = errors.New("place provider unavailable")
	ErrConstraintViolation = errors.New("unique constraint violation")
	ErrDatabaseError       = errors.New("database error")

	ErrNotFound             = errors.New("not found")
	ErrTripNotFound         = fmt.Errorf("trip %w", ErrNotFound)
	ErrDayNotFound          = fmt.Errorf("day %w", ErrNotFound)
	ErrActivityNotFound     = fmt.Errorf("activity %w", ErrNotFound)
	ErrWishlistItemNotFound = fmt.Errorf("wishlist item %w", ErrNotFound)
	ErrPlaceNotFound        = fmt.Errorf("place %w", ErrNotFound)
	ErrVideoNotFound        = fmt.Errorf("video %w", ErrNotFound)
)

// DatabaseError tags a store failure while keeping the cause inspectable.
func DatabaseError(err error) error {
	return fmt.Errorf("%w: %w", ErrDatabaseError, err)
}
