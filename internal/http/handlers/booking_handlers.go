package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"voltbook/internal/http/middleware"
	"voltbook/internal/models"
	"voltbook/internal/service"
)

// BookingHandlers serves booking lifecycle endpoints.
type BookingHandlers struct {
	bookings *service.BookingService
}

// NewBookingHandlers builds handlers.
func NewBookingHandlers(bookings *service.BookingService) *BookingHandlers {
	return &BookingHandlers{bookings: bookings}
}

// Create handles POST /bookings.
func (h *BookingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		StationID     int64     `json:"station_id"`
		ChargerNumber string    `json:"charger_number"`
		VehicleID     int64     `json:"vehicle_id"`
		StartTime     time.Time `json:"start_time"`
		DurationHours int       `json:"duration_hours"`
		IsPreBooked   bool      `json:"is_pre_booked"`
		TotalAmount   float64   `json:"total_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := h.bookings.Create(r.Context(), service.CreateBookingInput{
		UserID:        userID,
		StationID:     req.StationID,
		ChargerNumber: req.ChargerNumber,
		VehicleID:     req.VehicleID,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		IsPreBooked:   req.IsPreBooked,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// Mine handles GET /bookings/me.
func (h *BookingHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookings, err := h.bookings.BookingsForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Get handles GET /bookings/{id}.
func (h *BookingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.BookingByID(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Cancel handles POST /bookings/{id}/cancel.
func (h *BookingHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// UpdateStatus handles PUT /bookings/{id}/status. Admin only.
func (h *BookingHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Availability handles GET /stations/{id}/availability.
func (h *BookingHandlers) Availability(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	query := r.URL.Query()
	chargerNumber := query.Get("charger")
	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be RFC3339")
		return
	}
	hours, err := parseHours(query.Get("hours"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "hours must be an integer")
		return
	}

	available, err := h.bookings.CheckAvailability(r.Context(), stationID, chargerNumber, start, hours)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// StationBookings handles GET /stations/{id}/bookings?date=. Admin only.
func (h *BookingHandlers) StationBookings(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	bookings, err := h.bookings.StationBookings(r.Context(), stationID, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ActiveOnCharger handles GET /stations/{id}/chargers/{number}/active.
func (h *BookingHandlers) ActiveOnCharger(w http.ResponseWriter, r *http.Request) {
	stationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	active, err := h.bookings.ActiveOnCharger(r.Context(), stationID, r.PathValue("number"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}
