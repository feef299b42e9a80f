package entities

import "sort"

// Day status values used by the search and calendar views.
const (
	DayAvailable   = "available"
	DayPartial     = "partial"
	DayUnavailable = "unavailable"
)

const HoursPerDay = 24

// DayAvailability is the dense calendar view of one space's day.
//
// Hours carries the read-time value for every hour of the day: hours with no
// stored slot fall back to available. Status reflects only what the owner
// explicitly configured, so a day with zero slots reads as unavailable even
// though its hours default to true.
type DayAvailability struct {
	Status    string       `json:"status"`
	Available bool         `json:"available"`
	Hours     map[int]bool `json:"hours"`
}

// ClassifyDay derives the day status from a day's stored slots:
// zero slots or all-blocked slots -> unavailable; exactly one slot spanning
// the full day and available -> available; anything else -> partial.
func ClassifyDay(slots []HourSlot) string {
	if len(slots) == 0 {
		return DayUnavailable
	}
	anyAvailable := false
	for _, s := range slots {
		if s.Available {
			anyAvailable = true
			break
		}
	}
	if !anyAvailable {
		return DayUnavailable
	}
	if len(slots) == 1 && slots[0].StartHour == 0 && slots[0].EndHour == HoursPerDay && slots[0].Available {
		return DayAvailable
	}
	return DayPartial
}

// ExplicitHours expands a slot list into per-hour values for the hours the
// slots actually cover. When slots overlap, later entries win, matching the
// order toggles were recorded in.
func ExplicitHours(slots []HourSlot) map[int]bool {
	hours := make(map[int]bool)
	for _, s := range slots {
		for h := s.StartHour; h < s.EndHour && h < HoursPerDay; h++ {
			hours[h] = s.Available
		}
	}
	return hours
}

// SlotsFromHours compresses explicit per-hour values into a sorted,
// non-overlapping slot list, merging consecutive hours with equal
// availability. Hours absent from the map produce no slot.
func SlotsFromHours(hours map[int]bool) []HourSlot {
	keys := make([]int, 0, len(hours))
	for h := range hours {
		if h >= 0 && h < HoursPerDay {
			keys = append(keys, h)
		}
	}
	sort.Ints(keys)

	var slots []HourSlot
	for _, h := range keys {
		v := hours[h]
		if n := len(slots); n > 0 && slots[n-1].EndHour == h && slots[n-1].Available == v {
			slots[n-1].EndHour = h + 1
			continue
		}
		slots = append(slots, HourSlot{StartHour: h, EndHour: h + 1, Available: v})
	}
	return slots
}

// NormalizeSlots rewrites a slot list as a sorted, non-overlapping, merged
// equivalent. Ad hoc single-hour toggles interleaved with larger ranges
// collapse into a canonical set.
func NormalizeSlots(slots []HourSlot) []HourSlot {
	return SlotsFromHours(ExplicitHours(slots))
}

// DayFromSlots builds the dense read view for one day.
func DayFromSlots(slots []HourSlot) DayAvailability {
	status := ClassifyDay(slots)
	hours := make(map[int]bool, HoursPerDay)
	for h := 0; h < HoursPerDay; h++ {
		hours[h] = true
	}
	for h, v := range ExplicitHours(slots) {
		hours[h] = v
	}
	return DayAvailability{
		Status:    status,
		Available: status == DayAvailable,
		Hours:     hours,
	}
}

// ToggleDay collapses a day to a single all-day slot, discarding any
// finer-grained configuration.
func ToggleDay(available bool) []HourSlot {
	return []HourSlot{{StartHour: 0, EndHour: HoursPerDay, Available: available}}
}

// ToggleHour sets one hour's availability on a normalized copy of the slot
// list. A covered hour takes the requested value; an uncovered hour gets a
// fresh 1-hour available slot.
func ToggleHour(slots []HourSlot, hour int, available bool) []HourSlot {
	hours := ExplicitHours(slots)
	if _, covered := hours[hour]; covered {
		hours[hour] = available
	} else {
		hours[hour] = true
	}
	return SlotsFromHours(hours)
}
