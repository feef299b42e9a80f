package api

import (
	"encoding/json"
	"log"
	"net/http"

	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"
)

// Auth
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Bookings
type UpdateBookingRequest struct {
	StartTime *string `json:"start_datetime,omitempty"`
	EndTime   *string `json:"end_datetime,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// Availability
type ReplaceMonthRequest struct {
	Month        string                              `json:"month"` // YYYY-MM
	Availability map[string]entities.DayAvailability `json:"availability"`
}

type ToggleDayRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Available bool   `json:"available"`
}

type ToggleHourRequest struct {
	Date      string `json:"date"`
	Hour      int    `json:"hour"`
	Available bool   `json:"available"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the core error taxonomy onto fixed status codes.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "Internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
