package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedBookingIDsPastEndTime finds confirmed bookings whose end time
// has already elapsed.
func (r *JobRepository) GetConfirmedBookingIDsPastEndTime() ([]int, error) {
	query := `SELECT id FROM bookings WHERE status = 'confirmed' AND end_time < NOW()`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed bookings past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateBookingStatuses moves a batch of bookings to newStatus and bumps
// updated_at.
func (r *JobRepository) UpdateBookingStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d bookings to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// DeletePendingBookingsOlderThan removes pending bookings whose checkout was
// never completed, created before the cutoff.
func (r *JobRepository) DeletePendingBookingsOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM bookings WHERE status = 'pending' AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending bookings: %w", err)
	}
	return result.RowsAffected()
}
