package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"spotshare/internal/db"
)

type SpaceRepository struct {
	DB *sql.DB
}

func NewSpaceRepository(database *sql.DB) *SpaceRepository {
	return &SpaceRepository{DB: database}
}

// GetSpaceByID returns nil without error when the space does not exist.
func (r *SpaceRepository) GetSpaceByID(id int) (*db.ParkingSpace, error) {
	var s db.ParkingSpace
	query := `
		SELECT id, owner_id, title, hourly_price_cents, daily_price_cents, length_cm, width_cm, height_cm, created_at
		FROM parking_spaces WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.OwnerID, &s.Title, &s.HourlyPriceCents, &s.DailyPriceCents, &s.LengthCM, &s.WidthCM, &s.HeightCM, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying parking space %d: %w", id, err)
	}
	return &s, nil
}

// GetVehicleByID returns nil without error when the vehicle does not exist.
func (r *SpaceRepository) GetVehicleByID(id int) (*db.Vehicle, error) {
	var v db.Vehicle
	query := `
		SELECT id, user_id, plate, model, length_cm, width_cm, height_cm
		FROM vehicles WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&v.ID, &v.UserID, &v.Plate, &v.Model, &v.LengthCM, &v.WidthCM, &v.HeightCM,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return &v, nil
}
