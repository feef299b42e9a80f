package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spotshare/internal/db"

	"github.com/lib/pq"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

// Overlap predicate is half-open on both sides: a booking touching the
// requested boundary does not conflict.
const conflictingBookingsQuery = `
	SELECT id FROM bookings
	WHERE space_id = $1
	  AND status <> 'cancelled'
	  AND start_time < $3
	  AND end_time > $2
	  AND ($4 = 0 OR id <> $4)
	ORDER BY start_time`

// GetConflictingBookingIDs returns ids of non-cancelled bookings for the
// space overlapping [start, end). excludeID = 0 means no exclusion;
// a non-zero id supports rescheduling an existing booking.
func (r *BookingRepository) GetConflictingBookingIDs(spaceID int, start, end time.Time, excludeID int) ([]int, error) {
	return conflictingIDs(r.DB, spaceID, start, end, excludeID)
}

type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

func conflictingIDs(q querier, spaceID int, start, end time.Time, excludeID int) ([]int, error) {
	rows, err := q.Query(conflictingBookingsQuery, spaceID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("error querying conflicting bookings: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning conflicting booking id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// lockSpaceRow takes the per-space row lock that serializes booking writes.
func lockSpaceRow(tx *sql.Tx, spaceID int) error {
	var id int
	err := tx.QueryRow(`SELECT id FROM parking_spaces WHERE id = $1 FOR UPDATE`, spaceID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("parking space %d not found: %w", spaceID, err)
		}
		return fmt.Errorf("error locking parking space %d: %w", spaceID, err)
	}
	return nil
}

// HasBlockedHours reports whether any explicitly unavailable slot overlaps
// the requested interval. Hours with no stored slot are treated as
// available, so only is_available = false rows can block a booking.
func (r *BookingRepository) HasBlockedHours(spaceID int, start, end time.Time) (bool, error) {
	return hasBlockedHours(r.DB, spaceID, start, end)
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func hasBlockedHours(q queryRower, spaceID int, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM availability_slots s
			WHERE s.space_id = $1
			  AND s.is_available = FALSE
			  AND s.date + s.start_hour * interval '1 hour' < $3
			  AND s.date + s.end_hour * interval '1 hour' > $2
		)`
	var blocked bool
	if err := q.QueryRow(query, spaceID, start, end).Scan(&blocked); err != nil {
		return false, fmt.Errorf("error checking blocked hours: %w", err)
	}
	return blocked, nil
}

// CreateBookingIfFree inserts the booking only when no conflicting booking
// and no blocked hour exists. The check and the insert run in one
// transaction that locks the space row first, so two racing requests for
// the same space serialize and at most one can succeed.
//
// When the interval is taken, the booking is not inserted, the returned
// conflict ids / blocked flag explain why, and err is nil.
func (r *BookingRepository) CreateBookingIfFree(b *db.Booking) (conflictIDs []int, blocked bool, err error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockSpaceRow(tx, b.SpaceID); err != nil {
		return nil, false, err
	}

	conflictIDs, err = conflictingIDs(tx, b.SpaceID, b.StartTime, b.EndTime, 0)
	if err != nil {
		return nil, false, err
	}
	if len(conflictIDs) > 0 {
		return conflictIDs, false, nil
	}

	blocked, err = hasBlockedHours(tx, b.SpaceID, b.StartTime, b.EndTime)
	if err != nil {
		return nil, false, err
	}
	if blocked {
		return nil, true, nil
	}

	query := `
		INSERT INTO bookings
		(space_id, renter_id, vehicle_id, start_time, end_time, duration_hours, billing_mode, amount_cents, status, special_requests, stripe_session_id, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		b.SpaceID,
		b.RenterID,
		b.VehicleID,
		b.StartTime,
		b.EndTime,
		b.DurationHours,
		b.BillingMode,
		b.AmountCents,
		b.Status,
		b.SpecialRequests,
		b.StripeSessionID,
		b.PaymentStatus,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("error inserting booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("error committing booking: %w", err)
	}
	return nil, false, nil
}

func (r *BookingRepository) GetBookingByID(id int) (*db.Booking, error) {
	var b db.Booking
	query := `
		SELECT id, space_id, renter_id, vehicle_id, start_time, end_time, duration_hours, billing_mode, amount_cents, status, special_requests, stripe_session_id, payment_status, created_at, updated_at
		FROM bookings WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&b.ID, &b.SpaceID, &b.RenterID, &b.VehicleID, &b.StartTime, &b.EndTime, &b.DurationHours, &b.BillingMode, &b.AmountCents, &b.Status, &b.SpecialRequests, &b.StripeSessionID, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *BookingRepository) GetBookingByStripeSessionID(sessionID string) (*db.Booking, error) {
	var b db.Booking
	query := `
		SELECT id, space_id, renter_id, vehicle_id, start_time, end_time, duration_hours, billing_mode, amount_cents, status, special_requests, stripe_session_id, payment_status, created_at, updated_at
		FROM bookings WHERE stripe_session_id = $1`
	err := r.DB.QueryRow(query, sessionID).Scan(
		&b.ID, &b.SpaceID, &b.RenterID, &b.VehicleID, &b.StartTime, &b.EndTime, &b.DurationHours, &b.BillingMode, &b.AmountCents, &b.Status, &b.SpecialRequests, &b.StripeSessionID, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking for session %s: %w", sessionID, err)
	}
	return &b, nil
}

// UpdateBookingStatusIfCurrent moves the booking to newStatus only when its
// current status is one of allowedFrom, and reports whether the transition
// applied. All-or-nothing: a disallowed transition changes no row.
func (r *BookingRepository) UpdateBookingStatusIfCurrent(id int, newStatus string, allowedFrom []string) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = ANY($4)`
	res, err := r.DB.Exec(query, id, newStatus, time.Now().UTC(), pq.Array(allowedFrom))
	if err != nil {
		return false, fmt.Errorf("error updating booking %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RescheduleIfFree moves the booking to [start, end) and stores its
// re-quoted price only when no other non-cancelled booking and no blocked
// hour overlaps the new interval. Same locking discipline as
// CreateBookingIfFree: the space row is locked first, so a racing insert on
// the same space cannot slip in between the check and the update.
//
// When the new interval is taken, nothing is updated, the returned conflict
// ids / blocked flag explain why, and err is nil.
func (r *BookingRepository) RescheduleIfFree(id, spaceID int, start, end time.Time, durationHours int, billingMode string, amountCents int64) (conflictIDs []int, blocked bool, err error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("error starting reschedule transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockSpaceRow(tx, spaceID); err != nil {
		return nil, false, err
	}

	conflictIDs, err = conflictingIDs(tx, spaceID, start, end, id)
	if err != nil {
		return nil, false, err
	}
	if len(conflictIDs) > 0 {
		return conflictIDs, false, nil
	}

	blocked, err = hasBlockedHours(tx, spaceID, start, end)
	if err != nil {
		return nil, false, err
	}
	if blocked {
		return nil, true, nil
	}

	query := `
		UPDATE bookings
		SET start_time = $2, end_time = $3, duration_hours = $4, billing_mode = $5, amount_cents = $6, updated_at = $7
		WHERE id = $1`
	if _, err := tx.Exec(query, id, start, end, durationHours, billingMode, amountCents, time.Now().UTC()); err != nil {
		return nil, false, fmt.Errorf("error rescheduling booking %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("error committing reschedule: %w", err)
	}
	return nil, false, nil
}

// UpdateBookingAndPaymentStatusBySessionID is driven by Stripe webhook events.
func (r *BookingRepository) UpdateBookingAndPaymentStatusBySessionID(sessionID, status, paymentStatus string) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE stripe_session_id = $1`
	_, err := r.DB.Exec(query, sessionID, status, paymentStatus, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error updating booking for session %s: %w", sessionID, err)
	}
	return nil
}

func (r *BookingRepository) ListBookingsByRenter(renterID, limit, offset int) ([]db.Booking, int64, error) {
	return r.listBookings(`renter_id = $1`, renterID, limit, offset)
}

func (r *BookingRepository) ListBookingsBySpace(spaceID, limit, offset int) ([]db.Booking, int64, error) {
	return r.listBookings(`space_id = $1`, spaceID, limit, offset)
}

func (r *BookingRepository) listBookings(where string, key, limit, offset int) ([]db.Booking, int64, error) {
	var total int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings WHERE `+where, key).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %w", err)
	}

	query := `
		SELECT id, space_id, renter_id, vehicle_id, start_time, end_time, duration_hours, billing_mode, amount_cents, status, special_requests, stripe_session_id, payment_status, created_at, updated_at
		FROM bookings
		WHERE ` + where + `
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, key, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		err := rows.Scan(
			&b.ID, &b.SpaceID, &b.RenterID, &b.VehicleID, &b.StartTime, &b.EndTime, &b.DurationHours, &b.BillingMode, &b.AmountCents, &b.Status, &b.SpecialRequests, &b.StripeSessionID, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}
