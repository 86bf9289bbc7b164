package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"itinera/internal/discovery"
	dbm "itinera/internal/models/db_models"
	"itinera/pkg/utils"
)

// memStore backs the trip, day, activity and wishlist fakes so they see each
// other's writes the way tables in one database would.
type memStore struct {
	mu         sync.Mutex
	trips      map[uuid.UUID]dbm.Trip
	days       map[uuid.UUID]dbm.Day
	activities map[uuid.UUID]dbm.Activity
	wishlist   map[uuid.UUID]dbm.WishlistItem
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		trips:      map[uuid.UUID]dbm.Trip{},
		days:       map[uuid.UUID]dbm.Day{},
		activities: map[uuid.UUID]dbm.Activity{},
		wishlist:   map[uuid.UUID]dbm.WishlistItem{},
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) tripDays(tripID uuid.UUID) []dbm.Day {
	var out []dbm.Day
	for _, d := range m.days {
		if d.TripID == tripID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out
}

func (m *memStore) dayActivities(dayID uuid.UUID) []dbm.Activity {
	var out []dbm.Activity
	for _, a := range m.activities {
		if a.DayID == dayID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (m *memStore) renumberDays(trip dbm.Trip, ids []uuid.UUID) {
	for i, id := range ids {
		d := m.days[id]
		d.DayNumber = i + 1
		d.Date = dbm.DateOnly(trip.StartDate).AddDate(0, 0, i)
		m.days[id] = d
	}
}

func (m *memStore) renumberActivities(ids []uuid.UUID) {
	for i, id := range ids {
		a := m.activities[id]
		a.OrderIndex = i
		m.activities[id] = a
	}
}

func activityIDs(list []dbm.Activity) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func samePermutation(current, proposed []uuid.UUID) bool {
	if len(current) != len(proposed) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range proposed {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return true
}

var errFakeNotPermutation = fmt.Errorf("%w: ids must be a permutation", utils.ErrInvalidInput)

type fakeTripRepo struct{ *memStore }

func (r fakeTripRepo) CreateWithDays(_ context.Context, trip *dbm.Trip, days []dbm.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	stored := *trip
	stored.Days = nil
	r.trips[trip.ID] = stored

	for _, d := range days {
		d.ID, d.TripID = uuid.New(), trip.ID
		acts := d.Activities
		d.Activities = nil
		r.days[d.ID] = d
		for _, a := range acts {
			a.ID, a.DayID = uuid.New(), d.ID
			r.activities[a.ID] = a
		}
	}
	return nil
}

func (r fakeTripRepo) GetByID(_ context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[tripID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r fakeTripRepo) GetDetail(_ context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[tripID]
	if !ok {
		return nil, nil
	}
	for _, d := range r.tripDays(tripID) {
		d.Activities = r.dayActivities(d.ID)
		t.Days = append(t.Days, d)
	}
	return &t, nil
}

func (r fakeTripRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, page int, pageSize int) ([]dbm.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.Trip
	for _, t := range r.trips {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, nil
	}
	end := min(start+pageSize, len(out))
	return out[start:end], nil
}

func (r fakeTripRepo) Update(_ context.Context, trip *dbm.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *trip
	stored.Days = nil
	r.trips[trip.ID] = stored
	return nil
}

func (r fakeTripRepo) UpdateSchedule(_ context.Context, trip *dbm.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *trip
	stored.Days = nil
	r.trips[trip.ID] = stored

	want := trip.DayCount()
	days := r.tripDays(trip.ID)
	for _, d := range days {
		if d.DayNumber > want {
			for _, a := range r.dayActivities(d.ID) {
				delete(r.activities, a.ID)
			}
			delete(r.days, d.ID)
		}
	}
	for n := len(days) + 1; n <= want; n++ {
		d := dbm.NewDay(trip.ID, n, trip.StartDate)
		d.ID = uuid.New()
		r.days[d.ID] = d
	}
	for _, d := range r.tripDays(trip.ID) {
		d.Date = dbm.DateOnly(trip.StartDate).AddDate(0, 0, d.DayNumber-1)
		r.days[d.ID] = d
	}
	return nil
}

func (r fakeTripRepo) Delete(_ context.Context, tripID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.tripDays(tripID) {
		for _, a := range r.dayActivities(d.ID) {
			delete(r.activities, a.ID)
		}
		delete(r.days, d.ID)
	}
	delete(r.trips, tripID)
	return nil
}

func (r fakeTripRepo) IncrementViews(_ context.Context, tripID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.trips[tripID]
	t.ViewsCount++
	r.trips[tripID] = t
	return nil
}

func (r fakeTripRepo) IncrementCopies(_ context.Context, tripID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.trips[tripID]
	t.CopiesCount++
	r.trips[tripID] = t
	return nil
}

func (r fakeTripRepo) SaveSpend(_ context.Context, trip *dbm.Trip, days []dbm.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.trips[trip.ID]
	t.ActualSpent = trip.ActualSpent
	r.trips[trip.ID] = t
	for _, d := range days {
		stored := r.days[d.ID]
		stored.ActualSpent = d.ActualSpent
		r.days[d.ID] = stored
	}
	return nil
}

type fakeDayRepo struct{ *memStore }

func (r fakeDayRepo) GetByID(_ context.Context, dayID uuid.UUID) (*dbm.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[dayID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r fakeDayRepo) ListByTrip(_ context.Context, tripID uuid.UUID) ([]dbm.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tripDays(tripID), nil
}

func (r fakeDayRepo) Append(_ context.Context, trip *dbm.Trip, day *dbm.Day, maxDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := len(r.tripDays(trip.ID))
	if count >= maxDays {
		return fmt.Errorf("%w: a trip has at most %d days", utils.ErrTripTooLong, maxDays)
	}
	stored := r.trips[trip.ID]
	next := dbm.NewDay(trip.ID, count+1, stored.StartDate)
	day.ID = uuid.New()
	day.TripID, day.DayNumber, day.Date = next.TripID, next.DayNumber, next.Date
	if day.Title == "" {
		day.Title = next.Title
	}
	r.days[day.ID] = *day
	if day.Date.After(dbm.DateOnly(stored.EndDate)) {
		stored.EndDate = day.Date
		r.trips[trip.ID] = stored
		trip.EndDate = day.Date
	}
	return nil
}

func (r fakeDayRepo) Update(_ context.Context, day *dbm.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[day.ID] = *day
	return nil
}

func (r fakeDayRepo) DeleteAndRenumber(_ context.Context, day *dbm.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.dayActivities(day.ID) {
		delete(r.activities, a.ID)
	}
	delete(r.days, day.ID)

	trip := r.trips[day.TripID]
	var ids []uuid.UUID
	for _, d := range r.tripDays(day.TripID) {
		ids = append(ids, d.ID)
	}
	r.renumberDays(trip, ids)
	if len(ids) > 0 {
		trip.EndDate = dbm.DateOnly(trip.StartDate).AddDate(0, 0, len(ids)-1)
		r.trips[trip.ID] = trip
	}
	return nil
}

func (r fakeDayRepo) Reorder(_ context.Context, tripID uuid.UUID, dayIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var current []uuid.UUID
	for _, d := range r.tripDays(tripID) {
		current = append(current, d.ID)
	}
	if !samePermutation(current, dayIDs) {
		return errFakeNotPermutation
	}
	r.renumberDays(r.trips[tripID], dayIDs)
	return nil
}

type fakeActivityRepo struct{ *memStore }

func (r fakeActivityRepo) GetByID(_ context.Context, activityID uuid.UUID) (*dbm.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[activityID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r fakeActivityRepo) ListByDay(_ context.Context, dayID uuid.UUID) ([]dbm.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dayActivities(dayID), nil
}

func (r fakeActivityRepo) ListByTrip(_ context.Context, tripID uuid.UUID) ([]dbm.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.Activity
	for _, d := range r.tripDays(tripID) {
		out = append(out, r.dayActivities(d.ID)...)
	}
	return out, nil
}

func (r fakeActivityRepo) Insert(_ context.Context, activity *dbm.Activity, position *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := activityIDs(r.dayActivities(activity.DayID))
	activity.ID = uuid.New()
	r.activities[activity.ID] = *activity

	at := len(ids)
	if position != nil && *position < at {
		at = *position
	}
	ids = append(ids[:at], append([]uuid.UUID{activity.ID}, ids[at:]...)...)
	r.renumberActivities(ids)
	activity.OrderIndex = r.activities[activity.ID].OrderIndex
	return nil
}

func (r fakeActivityRepo) Update(_ context.Context, activity *dbm.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities[activity.ID] = *activity
	return nil
}

func (r fakeActivityRepo) Delete(_ context.Context, activity *dbm.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.activities, activity.ID)
	r.renumberActivities(activityIDs(r.dayActivities(activity.DayID)))
	return nil
}

func (r fakeActivityRepo) Reorder(_ context.Context, dayID uuid.UUID, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !samePermutation(activityIDs(r.dayActivities(dayID)), ids) {
		return errFakeNotPermutation
	}
	r.renumberActivities(ids)
	return nil
}

func (r fakeActivityRepo) Move(_ context.Context, activity *dbm.Activity, targetDayID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source := activity.DayID
	stored := r.activities[activity.ID]
	stored.DayID = targetDayID
	stored.OrderIndex = len(r.dayActivities(targetDayID))
	r.activities[activity.ID] = stored
	r.renumberActivities(activityIDs(r.dayActivities(source)))
	activity.DayID, activity.OrderIndex = stored.DayID, stored.OrderIndex
	return nil
}

type fakeWishlistRepo struct{ *memStore }

func (r fakeWishlistRepo) find(ownerID uuid.UUID, ref discovery.SavedRef) (dbm.WishlistItem, bool) {
	for _, item := range r.wishlist {
		if item.OwnerID == ownerID && item.Ref().Equal(ref) {
			return item, true
		}
	}
	return dbm.WishlistItem{}, false
}

func (r fakeWishlistRepo) Insert(_ context.Context, item *dbm.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.find(item.OwnerID, item.Ref()); dup {
		return fmt.Errorf("wishlist item: %w", utils.ErrConstraintViolation)
	}
	item.ID = uuid.New()
	item.CreatedAt = r.tick()
	r.wishlist[item.ID] = *item
	return nil
}

func (r fakeWishlistRepo) UpdateSnapshot(_ context.Context, item *dbm.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.find(item.OwnerID, item.Ref())
	if !ok {
		return nil
	}
	stored.PlaceName = item.PlaceName
	stored.PlaceLocation = item.PlaceLocation
	stored.PlaceCategory = item.PlaceCategory
	stored.PlaceImageURL = item.PlaceImageURL
	stored.PlaceEstimatedCost = item.PlaceEstimatedCost
	stored.ReferredByCreatorID = item.ReferredByCreatorID
	stored.ReferredFromContentID = item.ReferredFromContentID
	r.wishlist[stored.ID] = stored
	return nil
}

func (r fakeWishlistRepo) FindByRef(_ context.Context, ownerID uuid.UUID, ref discovery.SavedRef) (*dbm.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.find(ownerID, ref)
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r fakeWishlistRepo) GetByID(_ context.Context, ownerID uuid.UUID, itemID uuid.UUID) (*dbm.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.wishlist[itemID]
	if !ok || item.OwnerID != ownerID {
		return nil, nil
	}
	return &item, nil
}

func (r fakeWishlistRepo) Delete(_ context.Context, ownerID uuid.UUID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.wishlist[itemID]; ok && item.OwnerID == ownerID {
		delete(r.wishlist, itemID)
	}
	return nil
}

func (r fakeWishlistRepo) SetVisited(_ context.Context, ownerID uuid.UUID, itemID uuid.UUID, visitedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.wishlist[itemID]
	if !ok || item.OwnerID != ownerID {
		return false, nil
	}
	item.IsVisited, item.VisitedAt = visitedAt != nil, visitedAt
	r.wishlist[itemID] = item
	return true, nil
}

func (r fakeWishlistRepo) UpdateNote(_ context.Context, ownerID uuid.UUID, itemID uuid.UUID, note string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.wishlist[itemID]
	if !ok || item.OwnerID != ownerID {
		return false, nil
	}
	item.Notes = note
	r.wishlist[itemID] = item
	return true, nil
}

func (r fakeWishlistRepo) owned(ownerID uuid.UUID, keep func(dbm.WishlistItem) bool) []dbm.WishlistItem {
	var out []dbm.WishlistItem
	for _, item := range r.wishlist {
		if item.OwnerID == ownerID && keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r fakeWishlistRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]dbm.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.owned(ownerID, func(dbm.WishlistItem) bool { return true })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r fakeWishlistRepo) ListUnvisited(_ context.Context, ownerID uuid.UUID) ([]dbm.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owned(ownerID, func(item dbm.WishlistItem) bool { return !item.IsVisited }), nil
}

func (r fakeWishlistRepo) ListUnvisitedByLocation(_ context.Context, ownerID uuid.UUID, location string) ([]dbm.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(location)
	return r.owned(ownerID, func(item dbm.WishlistItem) bool {
		return !item.IsVisited && strings.Contains(strings.ToLower(item.PlaceLocation), needle)
	}), nil
}

type fixture struct {
	store      *memStore
	trips      fakeTripRepo
	days       fakeDayRepo
	activities fakeActivityRepo
	wishlist   fakeWishlistRepo
	budget     BudgetServiceInterface
	tripSvc    TripServiceInterface
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:      store,
		trips:      fakeTripRepo{store},
		days:       fakeDayRepo{store},
		activities: fakeActivityRepo{store},
		wishlist:   fakeWishlistRepo{store},
	}
	f.budget = NewBudgetService(f.trips, f.days, f.activities)
	f.tripSvc = NewTripService(f.trips, f.days, f.activities, f.wishlist, f.budget)
	return f
}
