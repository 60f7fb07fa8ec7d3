package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"voltbook/internal/service"
)

const timeFormat = time.RFC3339

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service sentinels onto HTTP statuses. Unknown errors
// become 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrSlotTaken),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrPlateTaken),
		errors.Is(err, service.ErrChargerUnavailable),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrStationNotFound),
		errors.Is(err, service.ErrChargerNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrVehicleNotFound),
		errors.Is(err, service.ErrWalletNotFound),
		errors.Is(err, service.ErrNoActiveBooking):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotSubscribed),
		errors.Is(err, service.ErrTooLateToCancel):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidStart),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrNegativeAmount),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrStationInvalid),
		errors.Is(err, service.ErrNoChargers),
		errors.Is(err, service.ErrChargerInvalid),
		errors.Is(err, service.ErrVehicleInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func parseHours(raw string) (int, error) {
	return strconv.Atoi(raw)
}
