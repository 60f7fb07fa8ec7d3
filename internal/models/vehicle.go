package models

import "time"

// Vehicle belongs to a user and is identified by its number plate.
type Vehicle struct {
	ID                 int64     `db:"id" json:"id"`
	UserID             int64     `db:"user_id" json:"user_id"`
	Type               string    `db:"type" json:"type"`
	NumberPlate        string    `db:"number_plate" json:"number_plate"`
	Brand              string    `db:"brand" json:"brand"`
	Model              string    `db:"model" json:"model"`
	BatteryCapacityKWh float64   `db:"battery_capacity_kwh" json:"battery_capacity_kwh"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
