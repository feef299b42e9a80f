package entities

import (
	"fmt"
	"time"

	apperrors "spotshare/internal/errors"
)

// TimeInterval is a half-open time range [Start, End): the start instant is
// included, the end instant is not, so touching intervals do not overlap.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeInterval rejects malformed ranges at construction.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !end.After(start) {
		return TimeInterval{}, apperrors.NewValidationError(
			fmt.Sprintf("end time %s must be after start time %s",
				end.Format(time.RFC3339), start.Format(time.RFC3339)))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share any instant.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t falls inside the interval.
func (i TimeInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration of the interval.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// HourSlot is an hour-granularity availability range within one calendar day
// of one space: [StartHour, EndHour) with 0 <= StartHour < EndHour <= 24.
type HourSlot struct {
	StartHour int  `json:"start_hour"`
	EndHour   int  `json:"end_hour"`
	Available bool `json:"is_available"`
}

// NewHourSlot validates hour bounds at construction.
func NewHourSlot(startHour, endHour int, available bool) (HourSlot, error) {
	if startHour < 0 || startHour > 23 {
		return HourSlot{}, apperrors.NewValidationError(fmt.Sprintf("start_hour %d out of range [0,24)", startHour))
	}
	if endHour < 1 || endHour > 24 {
		return HourSlot{}, apperrors.NewValidationError(fmt.Sprintf("end_hour %d out of range (0,24]", endHour))
	}
	if startHour >= endHour {
		return HourSlot{}, apperrors.NewValidationError(fmt.Sprintf("start_hour %d must be before end_hour %d", startHour, endHour))
	}
	return HourSlot{StartHour: startHour, EndHour: endHour, Available: available}, nil
}

// ContainsHour reports whether the slot covers the given hour.
func (s HourSlot) ContainsHour(hour int) bool {
	return s.StartHour <= hour && hour < s.EndHour
}

// OverlapsHours reports half-open overlap between two slots' hour ranges.
func (s HourSlot) OverlapsHours(other HourSlot) bool {
	return s.StartHour < other.EndHour && other.StartHour < s.EndHour
}
