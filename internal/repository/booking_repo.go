package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voltbook/internal/models"
)

// Sentinel errors surfaced to the booking service.
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrSlotConflict       = errors.New("slot already booked")
	ErrChargerUnavailable = errors.New("charger unavailable")
)

const bookingColumns = `id, reference, user_id, station_id, charger_number, vehicle_id, start_time,
	duration_hours, is_pre_booked, booking_date, total_amount, payment_status, status, created_at, updated_at`

const overlapCondition = `station_id = $1
	AND charger_number = $2
	AND status NOT IN ('completed', 'cancelled')
	AND start_time < $3
	AND start_time + make_interval(hours => duration_hours) > $4`

// BookingRepository persists bookings and keeps charger state in lockstep.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateIfFree inserts the booking only when its window does not intersect any
// non-terminal booking on the same (station, charger). The charger row is locked
// for the duration of the transaction, so of any concurrent overlapping creates
// exactly one commits; the rest observe the conflict and fail.
func (r *BookingRepository) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var chargerStatus string
	const lockQuery = `
		SELECT status FROM chargers
		WHERE station_id = $1 AND number = $2
		FOR UPDATE
	`
	if err := tx.QueryRowContext(ctx, lockQuery, booking.StationID, booking.ChargerNumber).Scan(&chargerStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrChargerUnavailable
		}
		return err
	}
	if chargerStatus != models.ChargerStatusAvailable {
		return ErrChargerUnavailable
	}

	var conflict bool
	overlapQuery := `SELECT EXISTS (SELECT 1 FROM bookings WHERE ` + overlapCondition + `)`
	if err := tx.QueryRowContext(ctx, overlapQuery,
		booking.StationID,
		booking.ChargerNumber,
		booking.EndTime(),
		booking.StartTime,
	).Scan(&conflict); err != nil {
		return err
	}
	if conflict {
		return ErrSlotConflict
	}

	const insertQuery = `
		INSERT INTO bookings (reference, user_id, station_id, charger_number, vehicle_id, start_time,
			duration_hours, is_pre_booked, booking_date, total_amount, payment_status, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, insertQuery,
		booking.Reference,
		booking.UserID,
		booking.StationID,
		booking.ChargerNumber,
		booking.VehicleID,
		booking.StartTime,
		booking.DurationHours,
		booking.IsPreBooked,
		booking.BookingDate,
		booking.TotalAmount,
		booking.PaymentStatus,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// HasConflict scans non-terminal bookings on the (station, charger) pair for
// half-open interval intersection with [start, start+hours·hour).
func (r *BookingRepository) HasConflict(ctx context.Context, stationID int64, chargerNumber string, start time.Time, hours int) (bool, error) {
	end := start.Add(time.Duration(hours) * time.Hour)
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE ` + overlapCondition + `)`
	var conflict bool
	err := r.db.QueryRowContext(ctx, query, stationID, chargerNumber, end, start).Scan(&conflict)
	return conflict, err
}

// GetByID fetches a booking.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRowContext(ctx, query, id))
}

// ListByUser returns the user's bookings, newest booking date first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY booking_date DESC, start_time DESC`
	return r.listBookings(ctx, query, userID)
}

// ListByStationDate returns a station's non-cancelled bookings on a calendar day.
func (r *BookingRepository) ListByStationDate(ctx context.Context, stationID int64, day time.Time) ([]models.Booking, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE station_id = $1 AND booking_date >= $2 AND booking_date < $3 AND status <> 'cancelled'
		ORDER BY start_time`
	return r.listBookings(ctx, query, stationID, start, end)
}

// UpdateStatus applies a booking status transition and, when effect is non-nil,
// the matching charger mutation in a single transaction. A charger must never be
// left in_use with no active booking or vice versa.
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *models.Booking, newStatus string, effect *models.ChargerUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const updateQuery = `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := tx.QueryRowContext(ctx, updateQuery, booking.ID, newStatus).Scan(&booking.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}

	if effect != nil {
		const chargerQuery = `
			UPDATE chargers
			SET status = $3, current_booking = $4
			WHERE station_id = $1 AND number = $2
		`
		result, err := tx.ExecContext(ctx, chargerQuery,
			booking.StationID,
			booking.ChargerNumber,
			effect.Status,
			effect.CurrentBooking,
		)
		if err != nil {
			return err
		}
		if err := requireRow(result, ErrChargerNotFound); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	booking.Status = newStatus
	return nil
}

func (r *BookingRepository) scanBooking(row *sql.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.StationID,
		&b.ChargerNumber,
		&b.VehicleID,
		&b.StartTime,
		&b.DurationHours,
		&b.IsPreBooked,
		&b.BookingDate,
		&b.TotalAmount,
		&b.PaymentStatus,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) listBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID,
			&b.Reference,
			&b.UserID,
			&b.StationID,
			&b.ChargerNumber,
			&b.VehicleID,
			&b.StartTime,
			&b.DurationHours,
			&b.IsPreBooked,
			&b.BookingDate,
			&b.TotalAmount,
			&b.PaymentStatus,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
