package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"voltbook/internal/service"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrSlotTaken, http.StatusConflict},
		{service.ErrInvalidTransition, http.StatusConflict},
		{service.ErrEmailInUse, http.StatusConflict},
		{service.ErrChargerUnavailable, http.StatusConflict},
		{service.ErrBookingNotFound, http.StatusNotFound},
		{service.ErrStationNotFound, http.StatusNotFound},
		{service.ErrNoActiveBooking, http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrNotSubscribed, http.StatusForbidden},
		{service.ErrTooLateToCancel, http.StatusForbidden},
		{service.ErrInsufficientBalance, http.StatusPaymentRequired},
		{service.ErrInvalidDuration, http.StatusBadRequest},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrNoChargers, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), tt.err.Error())
	}
}
