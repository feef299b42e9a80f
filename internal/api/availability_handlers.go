package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"spotshare/internal/auth"
	apperrors "spotshare/internal/errors"
	"spotshare/internal/service"
)

type AvailabilityHandler struct {
	Service *service.AvailabilityService
	Spaces  service.SpaceStore
}

func NewAvailabilityHandler(svc *service.AvailabilityService, spaces service.SpaceStore) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc, Spaces: spaces}
}

func (h *AvailabilityHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	year, month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.ensureSpaceExists(spaceID); err != nil {
		writeError(w, err)
		return
	}

	days, err := h.Service.GetMonth(spaceID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *AvailabilityHandler) ReplaceMonth(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req ReplaceMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	year, month, err := parseMonth(req.Month)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.ensureOwner(spaceID, auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.ReplaceMonth(spaceID, year, month, req.Availability); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AvailabilityHandler) ToggleDay(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req ToggleDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.ensureOwner(spaceID, auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	day, err := h.Service.ToggleDay(spaceID, date, req.Available)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (h *AvailabilityHandler) ToggleHour(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req ToggleHourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.ensureOwner(spaceID, auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	day, err := h.Service.ToggleHour(spaceID, date, req.Hour, req.Available)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (h *AvailabilityHandler) ensureSpaceExists(spaceID int) error {
	space, err := h.Spaces.GetSpaceByID(spaceID)
	if err != nil {
		return err
	}
	if space == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("parking space %d not found", spaceID))
	}
	return nil
}

func (h *AvailabilityHandler) ensureOwner(spaceID, actorID int) error {
	space, err := h.Spaces.GetSpaceByID(spaceID)
	if err != nil {
		return err
	}
	if space == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("parking space %d not found", spaceID))
	}
	if space.OwnerID != actorID {
		return apperrors.NewAuthorizationError("only the space owner can edit availability")
	}
	return nil
}

func parseMonth(raw string) (int, time.Month, error) {
	t, err := time.ParseInLocation("2006-01", raw, time.UTC)
	if err != nil {
		return 0, 0, apperrors.NewValidationError("month must be formatted YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date must be formatted YYYY-MM-DD")
	}
	return t, nil
}
