package service

import (
	"testing"
	"time"

	"spotshare/internal/db"
	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"

	"github.com/stretchr/testify/assert"
)

// In-memory stand-in for the availability repository.
type mockAvailabilityStore struct {
	slots []db.AvailabilitySlot

	replacedFrom time.Time
	replacedTo   time.Time
	replacedWith []db.AvailabilitySlot
}

func (m *mockAvailabilityStore) GetSlotsForRange(spaceID int, from, to time.Time) ([]db.AvailabilitySlot, error) {
	var result []db.AvailabilitySlot
	for _, s := range m.slots {
		if s.SpaceID == spaceID && !s.Date.Before(from) && s.Date.Before(to) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockAvailabilityStore) GetSlotsForDay(spaceID int, date time.Time) ([]db.AvailabilitySlot, error) {
	return m.GetSlotsForRange(spaceID, date, date.AddDate(0, 0, 1))
}

func (m *mockAvailabilityStore) ReplaceRange(spaceID int, from, to time.Time, slots []db.AvailabilitySlot) error {
	m.replacedFrom = from
	m.replacedTo = to
	m.replacedWith = slots
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetMonthMaterializesEveryDay(t *testing.T) {
	store := &mockAvailabilityStore{
		slots: []db.AvailabilitySlot{
			{SpaceID: 1, Date: day(2024, 6, 1), StartHour: 0, EndHour: 24, IsAvailable: true},
			{SpaceID: 1, Date: day(2024, 6, 2), StartHour: 0, EndHour: 12, IsAvailable: true},
			{SpaceID: 1, Date: day(2024, 6, 2), StartHour: 12, EndHour: 24, IsAvailable: false},
			{SpaceID: 1, Date: day(2024, 6, 3), StartHour: 0, EndHour: 24, IsAvailable: false},
		},
	}
	svc := NewAvailabilityService(store)

	days, err := svc.GetMonth(1, 2024, time.June)
	assert.NoError(t, err)
	assert.Len(t, days, 30)

	assert.Equal(t, entities.DayAvailable, days["2024-06-01"].Status)
	assert.Equal(t, entities.DayPartial, days["2024-06-02"].Status)
	assert.Equal(t, entities.DayUnavailable, days["2024-06-03"].Status)

	// A day with no stored slots classifies unavailable but its hours
	// follow the read-time default.
	unconfigured := days["2024-06-15"]
	assert.Equal(t, entities.DayUnavailable, unconfigured.Status)
	assert.True(t, unconfigured.Hours[9])

	blocked := days["2024-06-02"]
	assert.True(t, blocked.Hours[9])
	assert.False(t, blocked.Hours[15])
}

func TestReplaceMonthDerivesNormalizedSlots(t *testing.T) {
	store := &mockAvailabilityStore{}
	svc := NewAvailabilityService(store)

	err := svc.ReplaceMonth(1, 2024, time.June, map[string]entities.DayAvailability{
		"2024-06-05": {Hours: map[int]bool{8: true, 9: true, 10: false}},
	})
	assert.NoError(t, err)

	assert.Equal(t, day(2024, 6, 1), store.replacedFrom)
	assert.Equal(t, day(2024, 7, 1), store.replacedTo)
	assert.Equal(t, []db.AvailabilitySlot{
		{SpaceID: 1, Date: day(2024, 6, 5), StartHour: 8, EndHour: 10, IsAvailable: true},
		{SpaceID: 1, Date: day(2024, 6, 5), StartHour: 10, EndHour: 11, IsAvailable: false},
	}, store.replacedWith)
}

func TestReplaceMonthRejectsBadInput(t *testing.T) {
	svc := NewAvailabilityService(&mockAvailabilityStore{})
	var validationErr *apperrors.ValidationError

	err := svc.ReplaceMonth(1, 2024, time.June, map[string]entities.DayAvailability{
		"not-a-date": {},
	})
	assert.ErrorAs(t, err, &validationErr)

	err = svc.ReplaceMonth(1, 2024, time.June, map[string]entities.DayAvailability{
		"2024-07-01": {},
	})
	assert.ErrorAs(t, err, &validationErr)

	err = svc.ReplaceMonth(1, 2024, time.June, map[string]entities.DayAvailability{
		"2024-06-05": {Hours: map[int]bool{24: true}},
	})
	assert.ErrorAs(t, err, &validationErr)
}

func TestToggleDayReturnsCollapsedDay(t *testing.T) {
	svc := NewAvailabilityService(&mockAvailabilityStore{})

	dayView, err := svc.ToggleDay(1, day(2024, 6, 5), true)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayAvailable, dayView.Status)

	dayView, err = svc.ToggleDay(1, day(2024, 6, 5), false)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayUnavailable, dayView.Status)
}

func TestToggleHourFlipsStoredHour(t *testing.T) {
	store := &mockAvailabilityStore{
		slots: []db.AvailabilitySlot{
			{SpaceID: 1, Date: day(2024, 6, 5), StartHour: 0, EndHour: 24, IsAvailable: true},
		},
	}
	svc := NewAvailabilityService(store)

	dayView, err := svc.ToggleHour(1, day(2024, 6, 5), 10, false)
	assert.NoError(t, err)
	assert.Equal(t, entities.DayPartial, dayView.Status)
	assert.False(t, dayView.Hours[10])
	assert.True(t, dayView.Hours[9])
}

func TestToggleHourRejectsOutOfRangeHour(t *testing.T) {
	svc := NewAvailabilityService(&mockAvailabilityStore{})

	_, err := svc.ToggleHour(1, day(2024, 6, 5), 24, true)
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
