package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"voltbook/internal/models"
	"voltbook/internal/service"
)

// StationHandlers serves station inventory endpoints. Mutations are
// admin-gated at the router.
type StationHandlers struct {
	stations *service.StationService
}

// NewStationHandlers builds handlers.
func NewStationHandlers(stations *service.StationService) *StationHandlers {
	return &StationHandlers{stations: stations}
}

type chargerPayload struct {
	Number      string  `json:"number"`
	Type        string  `json:"type"`
	PowerKW     float64 `json:"power_kw"`
	PricePerKWh float64 `json:"price_per_kwh"`
	Status      string  `json:"status,omitempty"`
}

type stationPayload struct {
	Name      string           `json:"name"`
	Address   string           `json:"address"`
	Pincode   string           `json:"pincode"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Status    string           `json:"status,omitempty"`
	Chargers  []chargerPayload `json:"chargers"`
}

func (p stationPayload) toModel() *models.Station {
	station := &models.Station{
		Name:      p.Name,
		Address:   p.Address,
		Pincode:   p.Pincode,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Status:    p.Status,
	}
	for _, c := range p.Chargers {
		status := c.Status
		if status == "" {
			status = models.ChargerStatusAvailable
		}
		station.Chargers = append(station.Chargers, models.Charger{
			Number:      c.Number,
			Type:        c.Type,
			PowerKW:     c.PowerKW,
			PricePerKWh: c.PricePerKWh,
			Status:      status,
		})
	}
	return station
}

// Create handles POST /stations.
func (h *StationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req stationPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station := req.toModel()
	if err := h.stations.Create(r.Context(), station); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// Update handles PUT /stations/{id}.
func (h *StationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	var req stationPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station := req.toModel()
	station.ID = id
	if err := h.stations.Update(r.Context(), station); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Delete handles DELETE /stations/{id}.
func (h *StationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	if err := h.stations.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Get handles GET /stations/{id}.
func (h *StationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	station, err := h.stations.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// SetChargerStatus handles PUT /stations/{id}/chargers/{number}/status.
func (h *StationHandlers) SetChargerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid station id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.stations.SetChargerStatus(r.Context(), id, r.PathValue("number"), req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// List handles GET /stations, optionally filtered by ?pincode=.
func (h *StationHandlers) List(w http.ResponseWriter, r *http.Request) {
	pincode := strings.TrimSpace(r.URL.Query().Get("pincode"))

	var (
		stations []models.Station
		err      error
	)
	if pincode != "" {
		stations, err = h.stations.ListByPincode(r.Context(), pincode)
	} else {
		stations, err = h.stations.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	writeJSON(w, http.StatusOK, stations)
}
