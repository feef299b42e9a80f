package service

import (
	"fmt"
	"log"
	"time"

	"spotshare/internal/db"
	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"
)

const dateLayout = "2006-01-02"

// AvailabilityStore is the slice of the storage layer the availability
// service needs.
type AvailabilityStore interface {
	GetSlotsForRange(spaceID int, from, to time.Time) ([]db.AvailabilitySlot, error)
	GetSlotsForDay(spaceID int, date time.Time) ([]db.AvailabilitySlot, error)
	ReplaceRange(spaceID int, from, to time.Time, slots []db.AvailabilitySlot) error
}

type AvailabilityService struct {
	Repo AvailabilityStore
}

func NewAvailabilityService(repo AvailabilityStore) *AvailabilityService {
	return &AvailabilityService{Repo: repo}
}

// GetMonth materializes the dense calendar for every day of the month.
// Days and hours without stored slots follow the read-time defaults
// described on entities.DayAvailability.
func (s *AvailabilityService) GetMonth(spaceID, year int, month time.Month) (map[string]entities.DayAvailability, error) {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := firstDay.AddDate(0, 1, 0)

	stored, err := s.Repo.GetSlotsForRange(spaceID, firstDay, nextMonth)
	if err != nil {
		log.Printf("Error fetching availability for space %d %04d-%02d: %v", spaceID, year, month, err)
		return nil, fmt.Errorf("error fetching month availability: %w", err)
	}

	byDate := make(map[string][]entities.HourSlot)
	for _, slot := range stored {
		key := slot.Date.Format(dateLayout)
		byDate[key] = append(byDate[key], entities.HourSlot{
			StartHour: slot.StartHour,
			EndHour:   slot.EndHour,
			Available: slot.IsAvailable,
		})
	}

	result := make(map[string]entities.DayAvailability)
	for day := firstDay; day.Before(nextMonth); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		result[key] = entities.DayFromSlots(byDate[key])
	}
	return result, nil
}

// ReplaceMonth atomically swaps the month's slot set with one derived from
// the submitted per-day hour maps. Only hours present in a day's map
// produce slots; the derived set is normalized so overlapping entries
// cannot be stored.
func (s *AvailabilityService) ReplaceMonth(spaceID, year int, month time.Month, availability map[string]entities.DayAvailability) error {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := firstDay.AddDate(0, 1, 0)

	var slots []db.AvailabilitySlot
	for dateStr, day := range availability {
		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("invalid date %q", dateStr))
		}
		if date.Before(firstDay) || !date.Before(nextMonth) {
			return apperrors.NewValidationError(fmt.Sprintf("date %s is outside %04d-%02d", dateStr, year, month))
		}
		for hour := range day.Hours {
			if hour < 0 || hour >= entities.HoursPerDay {
				return apperrors.NewValidationError(fmt.Sprintf("hour %d out of range on %s", hour, dateStr))
			}
		}
		for _, slot := range entities.SlotsFromHours(day.Hours) {
			slots = append(slots, db.AvailabilitySlot{
				SpaceID:     spaceID,
				Date:        date,
				StartHour:   slot.StartHour,
				EndHour:     slot.EndHour,
				IsAvailable: slot.Available,
			})
		}
	}

	if err := s.Repo.ReplaceRange(spaceID, firstDay, nextMonth, slots); err != nil {
		log.Printf("Error replacing availability for space %d %04d-%02d: %v", spaceID, year, month, err)
		return err
	}
	return nil
}

// ToggleDay collapses a day to a single all-day slot and returns the
// resulting view. Editing-time operation: nothing is persisted until the
// caller saves the month via ReplaceMonth.
func (s *AvailabilityService) ToggleDay(spaceID int, date time.Time, available bool) (entities.DayAvailability, error) {
	return entities.DayFromSlots(entities.ToggleDay(available)), nil
}

// ToggleHour flips one hour on the day's current slot set and returns the
// resulting view. Editing-time operation, same persistence contract as
// ToggleDay.
func (s *AvailabilityService) ToggleHour(spaceID int, date time.Time, hour int, available bool) (entities.DayAvailability, error) {
	if hour < 0 || hour >= entities.HoursPerDay {
		return entities.DayAvailability{}, apperrors.NewValidationError(fmt.Sprintf("hour %d out of range [0,24)", hour))
	}

	stored, err := s.Repo.GetSlotsForDay(spaceID, date)
	if err != nil {
		return entities.DayAvailability{}, fmt.Errorf("error fetching day availability: %w", err)
	}
	slots := make([]entities.HourSlot, 0, len(stored))
	for _, slot := range stored {
		slots = append(slots, entities.HourSlot{
			StartHour: slot.StartHour,
			EndHour:   slot.EndHour,
			Available: slot.IsAvailable,
		})
	}
	return entities.DayFromSlots(entities.ToggleHour(slots, hour, available)), nil
}
