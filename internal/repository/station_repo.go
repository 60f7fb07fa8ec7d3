package repository

import (
	"context"
	"database/sql"
	"errors"

	"voltbook/internal/models"
)

// Sentinel errors for station and charger lookups.
var (
	ErrStationNotFound = errors.New("station not found")
	ErrChargerNotFound = errors.New("charger not found")
)

// StationRepository persists stations and their owned chargers.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a station together with its chargers in one transaction.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		INSERT INTO stations (name, address, pincode, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, query,
		station.Name,
		station.Address,
		station.Pincode,
		station.Latitude,
		station.Longitude,
		station.Status,
	).Scan(&station.ID, &station.CreatedAt, &station.UpdatedAt); err != nil {
		return err
	}

	if err := insertChargers(ctx, tx, station); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the station row and replaces its charger list.
func (r *StationRepository) Update(ctx context.Context, station *models.Station) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		UPDATE stations
		SET name = $2, address = $3, pincode = $4, latitude = $5, longitude = $6, status = $7, updated_at = NOW()
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query,
		station.ID,
		station.Name,
		station.Address,
		station.Pincode,
		station.Latitude,
		station.Longitude,
		station.Status,
	)
	if err != nil {
		return err
	}
	if err := requireRow(result, ErrStationNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chargers WHERE station_id = $1`, station.ID); err != nil {
		return err
	}
	if err := insertChargers(ctx, tx, station); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the station; chargers cascade.
func (r *StationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrStationNotFound)
}

// GetByID loads a station with its chargers in position order.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	const query = `
		SELECT id, name, address, pincode, latitude, longitude, status, created_at, updated_at
		FROM stations
		WHERE id = $1
	`
	var station models.Station
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.Address,
		&station.Pincode,
		&station.Latitude,
		&station.Longitude,
		&station.Status,
		&station.CreatedAt,
		&station.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	chargers, err := r.chargersFor(ctx, station.ID)
	if err != nil {
		return nil, err
	}
	station.Chargers = chargers
	return &station, nil
}

// List returns all stations with chargers.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	return r.list(ctx, `SELECT id, name, address, pincode, latitude, longitude, status, created_at, updated_at FROM stations ORDER BY id`)
}

// ListByPincode returns stations in a postal area.
func (r *StationRepository) ListByPincode(ctx context.Context, pincode string) ([]models.Station, error) {
	return r.list(ctx,
		`SELECT id, name, address, pincode, latitude, longitude, status, created_at, updated_at FROM stations WHERE pincode = $1 ORDER BY id`,
		pincode)
}

// GetCharger resolves a charger by number within a station.
func (r *StationRepository) GetCharger(ctx context.Context, stationID int64, number string) (*models.Charger, error) {
	const query = `
		SELECT station_id, number, position, type, power_kw, price_per_kwh, status, current_booking
		FROM chargers
		WHERE station_id = $1 AND number = $2
	`
	var c models.Charger
	err := r.db.QueryRowContext(ctx, query, stationID, number).Scan(
		&c.StationID,
		&c.Number,
		&c.Position,
		&c.Type,
		&c.PowerKW,
		&c.PricePerKWh,
		&c.Status,
		&c.CurrentBooking,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChargerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// SetChargerStatus mutates the embedded charger's status and occupying-booking
// reference as part of the owning station's state.
func (r *StationRepository) SetChargerStatus(ctx context.Context, stationID int64, number string, update models.ChargerUpdate) error {
	const query = `
		UPDATE chargers
		SET status = $3, current_booking = $4
		WHERE station_id = $1 AND number = $2
	`
	result, err := r.db.ExecContext(ctx, query, stationID, number, update.Status, update.CurrentBooking)
	if err != nil {
		return err
	}
	return requireRow(result, ErrChargerNotFound)
}

func (r *StationRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Station, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Address,
			&s.Pincode,
			&s.Latitude,
			&s.Longitude,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stations {
		chargers, err := r.chargersFor(ctx, stations[i].ID)
		if err != nil {
			return nil, err
		}
		stations[i].Chargers = chargers
	}
	return stations, nil
}

func (r *StationRepository) chargersFor(ctx context.Context, stationID int64) ([]models.Charger, error) {
	const query = `
		SELECT station_id, number, position, type, power_kw, price_per_kwh, status, current_booking
		FROM chargers
		WHERE station_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.Charger
	for rows.Next() {
		var c models.Charger
		if err := rows.Scan(
			&c.StationID,
			&c.Number,
			&c.Position,
			&c.Type,
			&c.PowerKW,
			&c.PricePerKWh,
			&c.Status,
			&c.CurrentBooking,
		); err != nil {
			return nil, err
		}
		chargers = append(chargers, c)
	}
	return chargers, rows.Err()
}

func insertChargers(ctx context.Context, tx *sql.Tx, station *models.Station) error {
	const query = `
		INSERT INTO chargers (station_id, number, position, type, power_kw, price_per_kwh, status, current_booking)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range station.Chargers {
		c := &station.Chargers[i]
		c.StationID = station.ID
		c.Position = i
		if c.Status == "" {
			c.Status = models.ChargerStatusAvailable
		}
		if _, err := tx.ExecContext(ctx, query,
			c.StationID,
			c.Number,
			c.Position,
			c.Type,
			c.PowerKW,
			c.PricePerKWh,
			c.Status,
			c.CurrentBooking,
		); err != nil {
			return err
		}
	}
	return nil
}
