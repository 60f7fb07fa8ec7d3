package models

import "time"

// Charger type constants.
const (
	ChargerTypeAC = "AC"
	ChargerTypeDC = "DC"
)

// Charger status constants.
const (
	ChargerStatusAvailable   = "available"
	ChargerStatusMaintenance = "maintenance"
	ChargerStatusInUse       = "in_use"
)

// Station status constants.
const (
	StationStatusAvailable   = "available"
	StationStatusMaintenance = "maintenance"
	StationStatusBusy        = "busy"
)

// Station is a physical charging location with at least one charger.
type Station struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Pincode   string    `db:"pincode" json:"pincode"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Status    string    `db:"status" json:"status"`
	Chargers  []Charger `json:"chargers"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Charger is owned by its station and addressed by number, never by slice index.
type Charger struct {
	StationID      int64   `db:"station_id" json:"station_id"`
	Number         string  `db:"number" json:"number"`
	Position       int     `db:"position" json:"position"`
	Type           string  `db:"type" json:"type"`
	PowerKW        float64 `db:"power_kw" json:"power_kw"`
	PricePerKWh    float64 `db:"price_per_kwh" json:"price_per_kwh"`
	Status         string  `db:"status" json:"status"`
	CurrentBooking *int64  `db:"current_booking" json:"current_booking,omitempty"`
}

// FindCharger returns the charger with the given number, or nil.
func (s *Station) FindCharger(number string) *Charger {
	for i := range s.Chargers {
		if s.Chargers[i].Number == number {
			return &s.Chargers[i]
		}
	}
	return nil
}

// ChargerUpdate describes the charger mutation applied alongside a booking
// status transition. A nil CurrentBooking clears the back-reference.
type ChargerUpdate struct {
	Status         string
	CurrentBooking *int64
}
