package service

import (
	"testing"
	"time"

	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"

	"github.com/stretchr/testify/assert"
)

var testRates = entities.RateSchedule{HourlyPriceCents: 200, DailyPriceCents: 1500}

func TestQuoteBillingThreshold(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	// 23 hours stays hourly: 23 * 2.00
	q, err := Quote(start, start.Add(23*time.Hour), testRates)
	assert.NoError(t, err)
	assert.Equal(t, entities.BillingHourly, q.BillingMode)
	assert.Equal(t, 23, q.DurationHours)
	assert.Equal(t, int64(4600), q.AmountCents)

	// 24 hours switches to daily: 1 * 15.00
	q, err = Quote(start, start.Add(24*time.Hour), testRates)
	assert.NoError(t, err)
	assert.Equal(t, entities.BillingDaily, q.BillingMode)
	assert.Equal(t, 24, q.DurationHours)
	assert.Equal(t, int64(1500), q.AmountCents)
}

func TestQuoteFractionalHoursRoundUp(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	q, err := Quote(start, start.Add(90*time.Minute), testRates)
	assert.NoError(t, err)
	assert.Equal(t, 2, q.DurationHours)
	assert.Equal(t, int64(400), q.AmountCents)

	q, err = Quote(start, start.Add(time.Minute), testRates)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.DurationHours)
	assert.Equal(t, int64(200), q.AmountCents)
}

func TestQuotePartialDaysRoundUp(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	q, err := Quote(start, start.Add(25*time.Hour), testRates)
	assert.NoError(t, err)
	assert.Equal(t, entities.BillingDaily, q.BillingMode)
	assert.Equal(t, int64(3000), q.AmountCents)

	q, err = Quote(start, start.Add(48*time.Hour), testRates)
	assert.NoError(t, err)
	assert.Equal(t, int64(3000), q.AmountCents)
}

func TestQuoteEightHourBooking(t *testing.T) {
	rates := entities.RateSchedule{HourlyPriceCents: 300, DailyPriceCents: 2000}
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	q, err := Quote(start, start.Add(8*time.Hour), rates)
	assert.NoError(t, err)
	assert.Equal(t, entities.BillingHourly, q.BillingMode)
	assert.Equal(t, int64(2400), q.AmountCents)
}

func TestQuoteRejectsZeroDuration(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := Quote(start, start, testRates)
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestQuoteRejectsNonPositiveRates(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := Quote(start, start.Add(time.Hour), entities.RateSchedule{HourlyPriceCents: 0, DailyPriceCents: 1500})
	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = Quote(start, start.Add(time.Hour), entities.RateSchedule{HourlyPriceCents: 200, DailyPriceCents: -1})
	assert.ErrorAs(t, err, &validationErr)
}

func TestQuoteIsDeterministic(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	end := start.Add(7*time.Hour + 45*time.Minute)

	first, err := Quote(start, end, testRates)
	assert.NoError(t, err)
	for i := 0; i < 10; i++ {
		q, err := Quote(start, end, testRates)
		assert.NoError(t, err)
		assert.Equal(t, first, q)
	}
}
