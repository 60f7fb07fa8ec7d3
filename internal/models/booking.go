package models

import "time"

// Booking lifecycle status constants.
const (
	BookingStatusPending   = "pending"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment status constants.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Charging duration bounds in whole hours.
const (
	MinBookingHours = 1
	MaxBookingHours = 6
)

// Booking reserves a charger for a half-open time window
// [StartTime, StartTime + DurationHours·hour).
type Booking struct {
	ID            int64     `db:"id" json:"id"`
	Reference     string    `db:"reference" json:"reference"`
	UserID        int64     `db:"user_id" json:"user_id"`
	StationID     int64     `db:"station_id" json:"station_id"`
	ChargerNumber string    `db:"charger_number" json:"charger_number"`
	VehicleID     int64     `db:"vehicle_id" json:"vehicle_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	DurationHours int       `db:"duration_hours" json:"duration_hours"`
	IsPreBooked   bool      `db:"is_pre_booked" json:"is_pre_booked"`
	BookingDate   time.Time `db:"booking_date" json:"booking_date"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// EndTime returns the exclusive end of the booked window.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationHours) * time.Hour)
}

// Overlaps tests half-open interval intersection with [start, start+hours·hour).
func (b *Booking) Overlaps(start time.Time, hours int) bool {
	end := start.Add(time.Duration(hours) * time.Hour)
	return b.StartTime.Before(end) && start.Before(b.EndTime())
}

// IsTerminal reports whether the booking can no longer transition.
func (b *Booking) IsTerminal() bool {
	return IsTerminalBookingStatus(b.Status)
}

// IsTerminalBookingStatus reports whether the status excludes a booking from
// overlap checks and further transitions.
func IsTerminalBookingStatus(status string) bool {
	return status == BookingStatusCompleted || status == BookingStatusCancelled
}

// ValidBookingStatus reports whether the status is one of the known lifecycle states.
func ValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusPending, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}
