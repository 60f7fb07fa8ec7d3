package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"voltbook/internal/models"
)

// ErrVehicleNotFound represents missing vehicle rows.
var ErrVehicleNotFound = errors.New("vehicle not found")

const vehicleColumns = `id, user_id, type, number_plate, brand, model, battery_capacity_kwh, created_at`

// VehicleRepository handles CRUD for the vehicles table. All lookups are
// owner-scoped; a foreign vehicle behaves as missing.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a vehicle for its owner.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.NumberPlate = normalizePlate(vehicle.NumberPlate)
	const query = `
		INSERT INTO vehicles (user_id, type, number_plate, brand, model, battery_capacity_kwh)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		vehicle.UserID,
		vehicle.Type,
		vehicle.NumberPlate,
		vehicle.Brand,
		vehicle.Model,
		vehicle.BatteryCapacityKWh,
	).Scan(&vehicle.ID, &vehicle.CreatedAt)
}

// GetByPlate fetches any user's vehicle by plate. Used for uniqueness checks.
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE number_plate = $1`
	return r.scanVehicle(r.db.QueryRowContext(ctx, query, normalizePlate(plate)))
}

// GetForUser fetches an owned vehicle by id.
func (r *VehicleRepository) GetForUser(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND user_id = $2`
	return r.scanVehicle(r.db.QueryRowContext(ctx, query, vehicleID, userID))
}

// ListByUser returns the user's vehicles.
func (r *VehicleRepository) ListByUser(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Type, &v.NumberPlate, &v.Brand, &v.Model, &v.BatteryCapacityKWh, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Update persists mutable fields of an owned vehicle.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.NumberPlate = normalizePlate(vehicle.NumberPlate)
	const query = `
		UPDATE vehicles
		SET type = $3, number_plate = $4, brand = $5, model = $6, battery_capacity_kwh = $7
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.UserID,
		vehicle.Type,
		vehicle.NumberPlate,
		vehicle.Brand,
		vehicle.Model,
		vehicle.BatteryCapacityKWh,
	)
	if err != nil {
		return err
	}
	return requireRow(result, ErrVehicleNotFound)
}

// Delete removes an owned vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, userID, vehicleID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1 AND user_id = $2`, vehicleID, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrVehicleNotFound)
}

func (r *VehicleRepository) scanVehicle(row *sql.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.UserID, &v.Type, &v.NumberPlate, &v.Brand, &v.Model, &v.BatteryCapacityKWh, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}
