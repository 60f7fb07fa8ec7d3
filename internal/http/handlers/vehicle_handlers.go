package handlers

import (
	"encoding/json"
	"net/http"

	"voltbook/internal/http/middleware"
	"voltbook/internal/models"
	"voltbook/internal/service"
)

// VehicleHandlers serves the caller's vehicle CRUD endpoints.
type VehicleHandlers struct {
	vehicles *service.VehicleService
}

// NewVehicleHandlers builds handlers.
func NewVehicleHandlers(vehicles *service.VehicleService) *VehicleHandlers {
	return &VehicleHandlers{vehicles: vehicles}
}

type vehiclePayload struct {
	Type               string  `json:"type"`
	NumberPlate        string  `json:"number_plate"`
	Brand              string  `json:"brand"`
	Model              string  `json:"model"`
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
}

// Add handles POST /vehicles.
func (h *VehicleHandlers) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req vehiclePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vehicle := &models.Vehicle{
		UserID:             userID,
		Type:               req.Type,
		NumberPlate:        req.NumberPlate,
		Brand:              req.Brand,
		Model:              req.Model,
		BatteryCapacityKWh: req.BatteryCapacityKWh,
	}
	if err := h.vehicles.Add(r.Context(), vehicle); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

// Mine handles GET /vehicles/me.
func (h *VehicleHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	vehicles, err := h.vehicles.Mine(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// ByPlate handles GET /vehicles/plate/{plate}.
func (h *VehicleHandlers) ByPlate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	vehicle, err := h.vehicles.ByPlate(r.Context(), userID, r.PathValue("plate"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Update handles PUT /vehicles/{id}.
func (h *VehicleHandlers) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	var req vehiclePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vehicle := &models.Vehicle{
		ID:                 id,
		UserID:             userID,
		Type:               req.Type,
		NumberPlate:        req.NumberPlate,
		Brand:              req.Brand,
		Model:              req.Model,
		BatteryCapacityKWh: req.BatteryCapacityKWh,
	}
	if err := h.vehicles.Update(r.Context(), vehicle); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Delete handles DELETE /vehicles/{id}.
func (h *VehicleHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	if err := h.vehicles.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
