package entities

import "time"

// Booking lifecycle statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Billing modes chosen by the pricing engine.
const (
	BillingHourly = "hourly"
	BillingDaily  = "daily"
)

// BookingRequest is what a renter submits to reserve a space.
type BookingRequest struct {
	SpaceID         int       `json:"space_id"`
	VehicleID       int       `json:"vehicle_id"`
	StartTime       time.Time `json:"start_datetime"`
	EndTime         time.Time `json:"end_datetime"`
	SpecialRequests string    `json:"special_requests"`
}

// BookingResponse is the booking as returned over HTTP.
type BookingResponse struct {
	ID              int       `json:"id"`
	SpaceID         int       `json:"space_id"`
	RenterID        int       `json:"renter_id"`
	VehicleID       int       `json:"vehicle_id"`
	StartTime       time.Time `json:"start_datetime"`
	EndTime         time.Time `json:"end_datetime"`
	DurationHours   int       `json:"duration_hours"`
	BillingMode     string    `json:"billing_mode"`
	AmountCents     int64     `json:"total_amount_cents"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CheckoutURL     string    `json:"checkout_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookingList is a paginated listing for owners and renters.
type BookingList struct {
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
	Bookings []BookingResponse `json:"bookings"`
}

// ConflictResult is the outcome of checking a proposed interval against
// existing non-cancelled bookings and blocked hours.
type ConflictResult struct {
	Conflict   bool  `json:"conflict"`
	BookingIDs []int `json:"conflicting_booking_ids,omitempty"`
}

// RateSchedule carries a space's rates in integer minor units.
type RateSchedule struct {
	HourlyPriceCents int64 `json:"hourly_price_cents"`
	DailyPriceCents  int64 `json:"daily_price_cents"`
}

// PriceQuote is the deterministic charge for an interval under a rate
// schedule. Derived, never persisted on its own.
type PriceQuote struct {
	DurationHours int    `json:"duration_hours"`
	BillingMode   string `json:"billing_mode"`
	AmountCents   int64  `json:"amount_cents"`
}

// BookingEmailData feeds the notification templates.
type BookingEmailData struct {
	UserName           string
	BookingID          int
	SpaceTitle         string
	VehiclePlate       string
	StartTimeFormatted string
	EndTimeFormatted   string
	Status             string
	CurrentYear        int
}
