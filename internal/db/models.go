package db

import "time"

type User struct {
	ID           int
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

type ParkingSpace struct {
	ID               int
	OwnerID          int
	Title            string
	HourlyPriceCents int64
	DailyPriceCents  int64
	LengthCM         int
	WidthCM          int
	HeightCM         int
	CreatedAt        time.Time
}

type Vehicle struct {
	ID       int
	UserID   int
	Plate    string
	Model    string
	LengthCM int
	WidthCM  int
	HeightCM int
}

type Booking struct {
	ID              int
	SpaceID         int
	RenterID        int
	VehicleID       int
	StartTime       time.Time
	EndTime         time.Time
	DurationHours   int
	BillingMode     string
	AmountCents     int64
	Status          string
	SpecialRequests string
	StripeSessionID string
	PaymentStatus   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AvailabilitySlot struct {
	ID          int
	SpaceID     int
	Date        time.Time
	StartHour   int
	EndHour     int
	IsAvailable bool
}
