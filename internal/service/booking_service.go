package service

import (
	"fmt"
	"log"
	"time"

	"spotshare/internal/db"
	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"
	"spotshare/internal/repository"
	"spotshare/internal/utils"
)

// User-facing message for a rejected interval, matching the booking form.
const msgSpaceUnavailable = "Space is not available for selected time"

// BookingStore is the slice of the storage layer the booking service needs.
type BookingStore interface {
	GetConflictingBookingIDs(spaceID int, start, end time.Time, excludeID int) ([]int, error)
	HasBlockedHours(spaceID int, start, end time.Time) (bool, error)
	CreateBookingIfFree(b *db.Booking) (conflictIDs []int, blocked bool, err error)
	GetBookingByID(id int) (*db.Booking, error)
	GetBookingByStripeSessionID(sessionID string) (*db.Booking, error)
	UpdateBookingStatusIfCurrent(id int, newStatus string, allowedFrom []string) (bool, error)
	RescheduleIfFree(id, spaceID int, start, end time.Time, durationHours int, billingMode string, amountCents int64) (conflictIDs []int, blocked bool, err error)
	UpdateBookingAndPaymentStatusBySessionID(sessionID, status, paymentStatus string) error
	ListBookingsByRenter(renterID, limit, offset int) ([]db.Booking, int64, error)
	ListBookingsBySpace(spaceID, limit, offset int) ([]db.Booking, int64, error)
}

// SpaceStore resolves spaces and vehicles referenced by bookings.
type SpaceStore interface {
	GetSpaceByID(id int) (*db.ParkingSpace, error)
	GetVehicleByID(id int) (*db.Vehicle, error)
}

// PaymentProvider is the payment collaborator boundary.
type PaymentProvider interface {
	CreateCheckoutSession(amountCents int64, currency, description, customerEmail string) (url, sessionID string, err error)
	ExpireCheckoutSession(sessionID string) error
	RefundPaymentBySessionID(sessionID string) error
}

// Notifier delivers cross-party booking notifications, fire and forget.
type Notifier interface {
	NotifyBookingStatus(b *db.Booking, space *db.ParkingSpace, renter, owner *db.User, status string)
}

type BookingService struct {
	Bookings BookingStore
	Spaces   SpaceStore
	Users    repository.UserRepository
	Payments PaymentProvider
	Notifier Notifier
}

func NewBookingService(bookings BookingStore, spaces SpaceStore, users repository.UserRepository, payments PaymentProvider, notifier Notifier) *BookingService {
	return &BookingService{
		Bookings: bookings,
		Spaces:   spaces,
		Users:    users,
		Payments: payments,
		Notifier: notifier,
	}
}

// CheckConflict tests a proposed interval against existing non-cancelled
// bookings and against hours the owner explicitly blocked. excludeID
// supports rescheduling: pass the booking's own id so it does not conflict
// with itself.
func (s *BookingService) CheckConflict(spaceID int, start, end time.Time, excludeID int) (*entities.ConflictResult, error) {
	if _, err := entities.NewTimeInterval(start, end); err != nil {
		return nil, err
	}
	ids, err := s.Bookings.GetConflictingBookingIDs(spaceID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return &entities.ConflictResult{Conflict: true, BookingIDs: ids}, nil
	}
	blocked, err := s.Bookings.HasBlockedHours(spaceID, start, end)
	if err != nil {
		return nil, err
	}
	if blocked {
		return &entities.ConflictResult{Conflict: true}, nil
	}
	return &entities.ConflictResult{Conflict: false}, nil
}

// QuoteForSpace prices an interval against a space's rate schedule.
func (s *BookingService) QuoteForSpace(spaceID int, start, end time.Time) (*entities.PriceQuote, error) {
	space, err := s.Spaces.GetSpaceByID(spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("parking space %d not found", spaceID))
	}
	return Quote(start, end, entities.RateSchedule{
		HourlyPriceCents: space.HourlyPriceCents,
		DailyPriceCents:  space.DailyPriceCents,
	})
}

// CreateBooking validates the request, prices it, opens a checkout session
// and inserts a pending booking. The conflict check and the insert run
// inside one storage transaction, so two racing requests for overlapping
// intervals cannot both succeed.
func (s *BookingService) CreateBooking(renterID int, req entities.BookingRequest) (*entities.BookingResponse, error) {
	if _, err := entities.NewTimeInterval(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	space, err := s.Spaces.GetSpaceByID(req.SpaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("parking space %d not found", req.SpaceID))
	}

	vehicle, err := s.Spaces.GetVehicleByID(req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("vehicle %d not found", req.VehicleID))
	}
	if vehicle.UserID != renterID {
		return nil, apperrors.NewAuthorizationError("vehicle does not belong to the renter")
	}
	if !utils.VehicleFits(vehicle, space) {
		return nil, apperrors.NewValidationError("vehicle does not fit this space")
	}

	quote, err := Quote(req.StartTime, req.EndTime, entities.RateSchedule{
		HourlyPriceCents: space.HourlyPriceCents,
		DailyPriceCents:  space.DailyPriceCents,
	})
	if err != nil {
		return nil, err
	}

	renter, err := s.Users.GetByID(renterID)
	if err != nil {
		return nil, err
	}
	if renter == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %d not found", renterID))
	}

	now := time.Now().UTC()
	booking := &db.Booking{
		SpaceID:         req.SpaceID,
		RenterID:        renterID,
		VehicleID:       req.VehicleID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationHours:   quote.DurationHours,
		BillingMode:     quote.BillingMode,
		AmountCents:     quote.AmountCents,
		Status:          entities.BookingPending,
		SpecialRequests: req.SpecialRequests,
		PaymentStatus:   entities.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var checkoutURL string
	if s.Payments != nil {
		description := fmt.Sprintf("Parking at %s, %s to %s", space.Title,
			req.StartTime.Format("02 Jan 15:04"), req.EndTime.Format("02 Jan 15:04"))
		url, sessionID, err := s.Payments.CreateCheckoutSession(quote.AmountCents, "usd", description, renter.Email)
		if err != nil {
			log.Printf("Error creating checkout session for space %d: %v", req.SpaceID, err)
			return nil, err
		}
		checkoutURL = url
		booking.StripeSessionID = sessionID
	}

	conflictIDs, blocked, err := s.Bookings.CreateBookingIfFree(booking)
	if err != nil {
		log.Printf("Error creating booking for space %d: %v", req.SpaceID, err)
		return nil, err
	}
	if len(conflictIDs) > 0 || blocked {
		// The rejected booking never existed, so its checkout session must
		// not stay payable.
		if booking.StripeSessionID != "" {
			if err := s.Payments.ExpireCheckoutSession(booking.StripeSessionID); err != nil {
				log.Printf("Error expiring checkout session %s: %v", booking.StripeSessionID, err)
			}
		}
		return nil, apperrors.NewConflictError(msgSpaceUnavailable, conflictIDs)
	}

	resp := toBookingResponse(booking)
	resp.CheckoutURL = checkoutURL
	return &resp, nil
}

// GetBooking returns the booking to either party; everyone else gets a 403.
func (s *BookingService) GetBooking(id, actorID int) (*entities.BookingResponse, error) {
	booking, space, err := s.bookingWithSpace(id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.RenterID && actorID != space.OwnerID {
		return nil, apperrors.NewAuthorizationError("only the renter or the space owner can view this booking")
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) ListRenterBookings(renterID, limit, offset int) (*entities.BookingList, error) {
	bookings, total, err := s.Bookings.ListBookingsByRenter(renterID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toBookingList(bookings, total, limit, offset), nil
}

// ListSpaceBookings is the owner's view of a space's schedule.
func (s *BookingService) ListSpaceBookings(spaceID, actorID, limit, offset int) (*entities.BookingList, error) {
	space, err := s.Spaces.GetSpaceByID(spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("parking space %d not found", spaceID))
	}
	if space.OwnerID != actorID {
		return nil, apperrors.NewAuthorizationError("only the space owner can list its bookings")
	}
	bookings, total, err := s.Bookings.ListBookingsBySpace(spaceID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toBookingList(bookings, total, limit, offset), nil
}

// Reschedule moves a pending or confirmed booking to a new interval at a
// re-quoted price. The conflict check (excluding the booking itself) and the
// interval update run inside one storage transaction, the same guard the
// create path has, so a reschedule racing a create cannot produce overlap.
func (s *BookingService) Reschedule(id, actorID int, start, end time.Time) (*entities.BookingResponse, error) {
	booking, space, err := s.bookingWithSpace(id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.RenterID {
		return nil, apperrors.NewAuthorizationError("only the renter can reschedule a booking")
	}
	if booking.Status != entities.BookingPending && booking.Status != entities.BookingConfirmed {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("cannot reschedule a %s booking", booking.Status))
	}

	quote, err := Quote(start, end, entities.RateSchedule{
		HourlyPriceCents: space.HourlyPriceCents,
		DailyPriceCents:  space.DailyPriceCents,
	})
	if err != nil {
		return nil, err
	}

	conflictIDs, blocked, err := s.Bookings.RescheduleIfFree(id, booking.SpaceID, start, end,
		quote.DurationHours, quote.BillingMode, quote.AmountCents)
	if err != nil {
		return nil, err
	}
	if len(conflictIDs) > 0 || blocked {
		return nil, apperrors.NewConflictError(msgSpaceUnavailable, conflictIDs)
	}

	booking.StartTime = start
	booking.EndTime = end
	booking.DurationHours = quote.DurationHours
	booking.BillingMode = quote.BillingMode
	booking.AmountCents = quote.AmountCents
	resp := toBookingResponse(booking)
	return &resp, nil
}

// ConfirmBooking moves a pending booking to confirmed. Driven by the
// payment collaborator's success signal, never called directly by users.
func (s *BookingService) ConfirmBooking(id int) (*entities.BookingResponse, error) {
	applied, err := s.Bookings.UpdateBookingStatusIfCurrent(id, entities.BookingConfirmed, []string{entities.BookingPending})
	if err != nil {
		return nil, err
	}
	booking, err := s.Bookings.GetBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", id))
	}
	if !applied {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("cannot confirm a %s booking", booking.Status))
	}
	s.notify(booking, entities.BookingConfirmed)
	resp := toBookingResponse(booking)
	return &resp, nil
}

// ConfirmBySessionID handles the checkout-completed webhook: confirm the
// booking and record the captured payment.
func (s *BookingService) ConfirmBySessionID(sessionID, paymentStatus string) error {
	booking, err := s.Bookings.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("no booking for checkout session %s", sessionID))
	}
	if booking.Status != entities.BookingPending {
		return apperrors.NewInvalidStateError(fmt.Sprintf("cannot confirm a %s booking", booking.Status))
	}
	if err := s.Bookings.UpdateBookingAndPaymentStatusBySessionID(sessionID, entities.BookingConfirmed, paymentStatus); err != nil {
		return err
	}
	booking.Status = entities.BookingConfirmed
	booking.PaymentStatus = paymentStatus
	s.notify(booking, entities.BookingConfirmed)
	return nil
}

// CancelBySessionID handles payment failure and refund webhooks.
func (s *BookingService) CancelBySessionID(sessionID, paymentStatus string) error {
	booking, err := s.Bookings.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("no booking for checkout session %s", sessionID))
	}
	if booking.Status == entities.BookingCancelled {
		return nil
	}
	if err := s.Bookings.UpdateBookingAndPaymentStatusBySessionID(sessionID, entities.BookingCancelled, paymentStatus); err != nil {
		return err
	}
	booking.Status = entities.BookingCancelled
	booking.PaymentStatus = paymentStatus
	s.notify(booking, entities.BookingCancelled)
	return nil
}

// CancelBooking cancels from pending or confirmed. Cancelling an
// already-cancelled booking is a no-op so retried requests and duplicate
// webhook deliveries stay harmless. A captured payment is refunded first.
func (s *BookingService) CancelBooking(id, actorID int) (*entities.BookingResponse, error) {
	booking, space, err := s.bookingWithSpace(id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.RenterID && actorID != space.OwnerID {
		return nil, apperrors.NewAuthorizationError("only the renter or the space owner can cancel this booking")
	}
	if booking.Status == entities.BookingCancelled {
		resp := toBookingResponse(booking)
		return &resp, nil
	}
	if booking.Status == entities.BookingCompleted {
		return nil, apperrors.NewInvalidStateError("cannot cancel a completed booking")
	}

	if booking.Status == entities.BookingConfirmed && booking.StripeSessionID != "" && s.Payments != nil {
		if err := s.Payments.RefundPaymentBySessionID(booking.StripeSessionID); err != nil {
			log.Printf("Error refunding booking %d: %v", id, err)
			return nil, err
		}
	}

	applied, err := s.Bookings.UpdateBookingStatusIfCurrent(id, entities.BookingCancelled,
		[]string{entities.BookingPending, entities.BookingConfirmed})
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race with another cancel; re-read and treat as idempotent.
		current, err := s.Bookings.GetBookingByID(id)
		if err != nil {
			return nil, err
		}
		if current == nil || current.Status != entities.BookingCancelled {
			return nil, apperrors.NewInvalidStateError("booking can no longer be cancelled")
		}
		resp := toBookingResponse(current)
		return &resp, nil
	}

	booking.Status = entities.BookingCancelled
	s.notify(booking, entities.BookingCancelled)
	resp := toBookingResponse(booking)
	return &resp, nil
}

// CompleteBooking moves a confirmed booking whose end time has elapsed to
// completed. Normally driven by the scheduled sweep.
func (s *BookingService) CompleteBooking(id int) (*entities.BookingResponse, error) {
	booking, err := s.Bookings.GetBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", id))
	}
	if booking.EndTime.After(time.Now().UTC()) {
		return nil, apperrors.NewInvalidStateError("booking has not ended yet")
	}
	applied, err := s.Bookings.UpdateBookingStatusIfCurrent(id, entities.BookingCompleted, []string{entities.BookingConfirmed})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("cannot complete a %s booking", booking.Status))
	}
	booking.Status = entities.BookingCompleted
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) bookingWithSpace(id int) (*db.Booking, *db.ParkingSpace, error) {
	booking, err := s.Bookings.GetBookingByID(id)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %d not found", id))
	}
	space, err := s.Spaces.GetSpaceByID(booking.SpaceID)
	if err != nil {
		return nil, nil, err
	}
	if space == nil {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("parking space %d not found", booking.SpaceID))
	}
	return booking, space, nil
}

func (s *BookingService) notify(booking *db.Booking, status string) {
	if s.Notifier == nil {
		return
	}
	space, err := s.Spaces.GetSpaceByID(booking.SpaceID)
	if err != nil || space == nil {
		log.Printf("Skipping notification for booking %d: space %d unavailable: %v", booking.ID, booking.SpaceID, err)
		return
	}
	renter, err := s.Users.GetByID(booking.RenterID)
	if err != nil || renter == nil {
		log.Printf("Skipping notification for booking %d: renter %d unavailable: %v", booking.ID, booking.RenterID, err)
		return
	}
	owner, err := s.Users.GetByID(space.OwnerID)
	if err != nil || owner == nil {
		log.Printf("Skipping owner notification for booking %d: owner %d unavailable: %v", booking.ID, space.OwnerID, err)
	}
	s.Notifier.NotifyBookingStatus(booking, space, renter, owner, status)
}

func toBookingResponse(b *db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		ID:              b.ID,
		SpaceID:         b.SpaceID,
		RenterID:        b.RenterID,
		VehicleID:       b.VehicleID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationHours:   b.DurationHours,
		BillingMode:     b.BillingMode,
		AmountCents:     b.AmountCents,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookingList(bookings []db.Booking, total int64, limit, offset int) *entities.BookingList {
	list := &entities.BookingList{
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Bookings: make([]entities.BookingResponse, 0, len(bookings)),
	}
	for i := range bookings {
		list.Bookings = append(list.Bookings, toBookingResponse(&bookings[i]))
	}
	return list
}
