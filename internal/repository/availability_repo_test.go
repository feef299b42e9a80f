package repository

import (
	"testing"
	"time"

	"spotshare/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newAvailabilityRepo(t *testing.T) (*AvailabilityRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewAvailabilityRepository(conn), mock
}

func TestGetSlotsForRange(t *testing.T) {
	repo, mock := newAvailabilityRepo(t)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM availability_slots`).
		WithArgs(1, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "space_id", "date", "start_hour", "end_hour", "is_available"}).
			AddRow(1, 1, from, 8, 12, true).
			AddRow(2, 1, from, 12, 14, false))

	slots, err := repo.GetSlotsForRange(1, from, to)
	assert.NoError(t, err)
	assert.Equal(t, []db.AvailabilitySlot{
		{ID: 1, SpaceID: 1, Date: from, StartHour: 8, EndHour: 12, IsAvailable: true},
		{ID: 2, SpaceID: 1, Date: from, StartHour: 12, EndHour: 14, IsAvailable: false},
	}, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRangeRunsInOneTransaction(t *testing.T) {
	repo, mock := newAvailabilityRepo(t)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM availability_slots`).
		WithArgs(1, from, to).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectPrepare(`INSERT INTO availability_slots`)
	mock.ExpectExec(`INSERT INTO availability_slots`).
		WithArgs(1, day, 8, 10, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO availability_slots`).
		WithArgs(1, day, 10, 11, false).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.ReplaceRange(1, from, to, []db.AvailabilitySlot{
		{Date: day, StartHour: 8, EndHour: 10, IsAvailable: true},
		{Date: day, StartHour: 10, EndHour: 11, IsAvailable: false},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRangeWithEmptySetClearsRange(t *testing.T) {
	repo, mock := newAvailabilityRepo(t)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM availability_slots`).
		WithArgs(1, from, to).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectPrepare(`INSERT INTO availability_slots`)
	mock.ExpectCommit()

	err := repo.ReplaceRange(1, from, to, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRangeRollsBackOnDeleteError(t *testing.T) {
	repo, mock := newAvailabilityRepo(t)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM availability_slots`).
		WithArgs(1, from, to).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceRange(1, from, to, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
