package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"spotshare/internal/auth"
	"spotshare/internal/entities"
	apperrors "spotshare/internal/errors"
	"spotshare/internal/service"

	"github.com/gorilla/mux"
)

const defaultPageSize = 50

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	renterID := auth.UserIDFromContext(r.Context())
	booking, err := h.Service.CreateBooking(renterID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.Service.GetBooking(id, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	list, err := h.Service.ListRenterBookings(auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) ListSpaceBookings(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, offset := pagination(r)
	list, err := h.Service.ListSpaceBookings(spaceID, auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UpdateBooking reschedules when new times are given, and cancels when the
// requested status is "cancelled". Other status values are webhook-driven
// and rejected here.
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	actorID := auth.UserIDFromContext(r.Context())

	if req.Status != nil {
		if *req.Status != entities.BookingCancelled {
			writeError(w, apperrors.NewValidationError("only status \"cancelled\" may be requested"))
			return
		}
		booking, err := h.Service.CancelBooking(id, actorID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
		return
	}

	if req.StartTime == nil || req.EndTime == nil {
		writeError(w, apperrors.NewValidationError("start_datetime and end_datetime are required"))
		return
	}
	start, err := time.Parse(time.RFC3339, *req.StartTime)
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid start_datetime"))
		return
	}
	end, err := time.Parse(time.RFC3339, *req.EndTime)
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid end_datetime"))
		return
	}

	booking, err := h.Service.Reschedule(id, actorID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.Service.CancelBooking(id, auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Booking cancelled",
		"booking": booking,
	})
}

// GetQuote prices an interval without creating anything.
func (h *BookingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid start"))
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid end"))
		return
	}

	quote, err := h.Service.QuoteForSpace(spaceID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		raw = r.URL.Query().Get(name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id")
	}
	return id, nil
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
