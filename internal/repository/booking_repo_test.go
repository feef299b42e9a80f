package repository

import (
	"testing"
	"time"

	"spotshare/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewBookingRepository(conn), mock
}

func TestGetConflictingBookingIDs(t *testing.T) {
	repo, mock := newBookingRepo(t)
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(1, start, end, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(9))

	ids, err := repo.GetConflictingBookingIDs(1, start, end, 0)
	assert.NoError(t, err)
	assert.Equal(t, []int{7, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasBlockedHours(t *testing.T) {
	repo, mock := newBookingRepo(t)
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	blocked, err := repo.HasBlockedHours(1, start, end)
	assert.NoError(t, err)
	assert.True(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func testBooking() *db.Booking {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)
	return &db.Booking{
		SpaceID:         1,
		RenterID:        20,
		VehicleID:       100,
		StartTime:       start,
		EndTime:         start.Add(8 * time.Hour),
		DurationHours:   8,
		BillingMode:     "hourly",
		AmountCents:     2400,
		Status:          "pending",
		StripeSessionID: "cs_test_1",
		PaymentStatus:   "pending",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestCreateBookingIfFreeInsertsWhenFree(t *testing.T) {
	repo, mock := newBookingRepo(t)
	b := testBooking()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parking_spaces WHERE id = \$1 FOR UPDATE`).
		WithArgs(b.SpaceID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(b.SpaceID))
	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(b.SpaceID, b.StartTime, b.EndTime, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(b.SpaceID, b.StartTime, b.EndTime).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(b.SpaceID, b.RenterID, b.VehicleID, b.StartTime, b.EndTime, b.DurationHours,
			b.BillingMode, b.AmountCents, b.Status, b.SpecialRequests, b.StripeSessionID,
			b.PaymentStatus, b.CreatedAt, b.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(42, b.CreatedAt, b.UpdatedAt))
	mock.ExpectCommit()

	conflictIDs, blocked, err := repo.CreateBookingIfFree(b)
	assert.NoError(t, err)
	assert.Empty(t, conflictIDs)
	assert.False(t, blocked)
	assert.Equal(t, 42, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingIfFreeReturnsConflictsWithoutInserting(t *testing.T) {
	repo, mock := newBookingRepo(t)
	b := testBooking()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parking_spaces WHERE id = \$1 FOR UPDATE`).
		WithArgs(b.SpaceID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(b.SpaceID))
	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(b.SpaceID, b.StartTime, b.EndTime, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectRollback()

	conflictIDs, blocked, err := repo.CreateBookingIfFree(b)
	assert.NoError(t, err)
	assert.Equal(t, []int{3}, conflictIDs)
	assert.False(t, blocked)
	assert.Zero(t, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingIfFreeRejectsBlockedHours(t *testing.T) {
	repo, mock := newBookingRepo(t)
	b := testBooking()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parking_spaces WHERE id = \$1 FOR UPDATE`).
		WithArgs(b.SpaceID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(b.SpaceID))
	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(b.SpaceID, b.StartTime, b.EndTime, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(b.SpaceID, b.StartTime, b.EndTime).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	conflictIDs, blocked, err := repo.CreateBookingIfFree(b)
	assert.NoError(t, err)
	assert.Empty(t, conflictIDs)
	assert.True(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByIDNotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	b, err := repo.GetBookingByID(404)
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusIfCurrent(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(5, "confirmed", sqlmock.AnyArg(), pq.Array([]string{"pending"})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.UpdateBookingStatusIfCurrent(5, "confirmed", []string{"pending"})
	assert.NoError(t, err)
	assert.True(t, applied)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(5, "confirmed", sqlmock.AnyArg(), pq.Array([]string{"pending"})).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err = repo.UpdateBookingStatusIfCurrent(5, "confirmed", []string{"pending"})
	assert.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRescheduleIfFreeUpdatesWhenFree(t *testing.T) {
	repo, mock := newBookingRepo(t)
	start := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parking_spaces WHERE id = \$1 FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(1, start, end, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(5, start, end, 4, "hourly", int64(1200), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	conflictIDs, blocked, err := repo.RescheduleIfFree(5, 1, start, end, 4, "hourly", 1200)
	assert.NoError(t, err)
	assert.Empty(t, conflictIDs)
	assert.False(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRescheduleIfFreeReturnsConflictsWithoutUpdating(t *testing.T) {
	repo, mock := newBookingRepo(t)
	start := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parking_spaces WHERE id = \$1 FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(1, start, end, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectRollback()

	conflictIDs, blocked, err := repo.RescheduleIfFree(5, 1, start, end, 4, "hourly", 1200)
	assert.NoError(t, err)
	assert.Equal(t, []int{8}, conflictIDs)
	assert.False(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRescheduleIfFreeRejectsBlockedHours(t *testing.T) {
	repo, mock := newBookingRepo(t)
	start := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parking_spaces WHERE id = \$1 FOR UPDATE`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT id FROM bookings`).
		WithArgs(1, start, end, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	conflictIDs, blocked, err := repo.RescheduleIfFree(5, 1, start, end, 4, "hourly", 1200)
	assert.NoError(t, err)
	assert.Empty(t, conflictIDs)
	assert.True(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
