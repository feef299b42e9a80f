package service

import (
	"time"

	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"
)

const hoursPerDay = 24

// Quote computes the deterministic charge for [start, end) under the given
// rate schedule. Fractional hours round up; a duration of 24 hours or more
// switches to daily billing with days also rounded up.
func Quote(start, end time.Time, rates entities.RateSchedule) (*entities.PriceQuote, error) {
	if rates.HourlyPriceCents <= 0 || rates.DailyPriceCents <= 0 {
		return nil, apperrors.NewValidationError("rates must be strictly positive")
	}
	if _, err := entities.NewTimeInterval(start, end); err != nil {
		return nil, err
	}

	d := end.Sub(start)
	hours := int(d.Hours())
	if d.Minutes() > float64(hours*60) {
		hours++
	}

	if hours >= hoursPerDay {
		days := hours / hoursPerDay
		if hours > days*hoursPerDay {
			days++
		}
		return &entities.PriceQuote{
			DurationHours: hours,
			BillingMode:   entities.BillingDaily,
			AmountCents:   int64(days) * rates.DailyPriceCents,
		}, nil
	}

	return &entities.PriceQuote{
		DurationHours: hours,
		BillingMode:   entities.BillingHourly,
		AmountCents:   int64(hours) * rates.HourlyPriceCents,
	}, nil
}
