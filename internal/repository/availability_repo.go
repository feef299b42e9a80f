package repository

import (
	"database/sql"
	"fmt"
	"time"

	"spotshare/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

// GetSlotsForRange returns all stored slots for the space with
// from <= date < to, ordered for deterministic materialization.
func (r *AvailabilityRepository) GetSlotsForRange(spaceID int, from, to time.Time) ([]db.AvailabilitySlot, error) {
	query := `
		SELECT id, space_id, date, start_hour, end_hour, is_available
		FROM availability_slots
		WHERE space_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, start_hour`
	rows, err := r.DB.Query(query, spaceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying availability slots: %w", err)
	}
	defer rows.Close()

	var slots []db.AvailabilitySlot
	for rows.Next() {
		var s db.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.SpaceID, &s.Date, &s.StartHour, &s.EndHour, &s.IsAvailable); err != nil {
			return nil, fmt.Errorf("error scanning availability slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *AvailabilityRepository) GetSlotsForDay(spaceID int, date time.Time) ([]db.AvailabilitySlot, error) {
	return r.GetSlotsForRange(spaceID, date, date.AddDate(0, 0, 1))
}

// ReplaceRange swaps every slot in [from, to) for the space with the given
// set in a single transaction, so concurrent readers see either the old set
// or the new one, never a half-replaced range.
func (r *AvailabilityRepository) ReplaceRange(spaceID int, from, to time.Time, slots []db.AvailabilitySlot) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting availability transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM availability_slots WHERE space_id = $1 AND date >= $2 AND date < $3`,
		spaceID, from, to)
	if err != nil {
		return fmt.Errorf("error deleting availability slots: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO availability_slots (space_id, date, start_hour, end_hour, is_available)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("error preparing slot insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range slots {
		if _, err := stmt.Exec(spaceID, s.Date, s.StartHour, s.EndHour, s.IsAvailable); err != nil {
			return fmt.Errorf("error inserting slot %s [%d,%d): %w",
				s.Date.Format("2006-01-02"), s.StartHour, s.EndHour, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing availability replacement: %w", err)
	}
	return nil
}
