package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/repository"
)

// Vehicle failure modes.
var (
	ErrVehicleNotFound = errors.New("vehicle: not found")
	ErrPlateTaken      = errors.New("vehicle: number plate already registered")
	ErrVehicleInvalid  = errors.New("vehicle: invalid vehicle data")
)

// VehicleStore defines the persistence contract for vehicle CRUD.
type VehicleStore interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	GetForUser(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, userID, vehicleID int64) error
}

// VehicleService owns registration of the user's vehicles.
type VehicleService struct {
	vehicles VehicleStore
	logger   *zap.Logger
}

// NewVehicleService builds service.
func NewVehicleService(vehicles VehicleStore, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, logger: logger}
}

// Add registers a vehicle for the user. Plates are globally unique.
func (s *VehicleService) Add(ctx context.Context, vehicle *models.Vehicle) error {
	if err := validateVehicle(vehicle); err != nil {
		return err
	}

	if _, err := s.vehicles.GetByPlate(ctx, vehicle.NumberPlate); err == nil {
		return ErrPlateTaken
	} else if !errors.Is(err, repository.ErrVehicleNotFound) {
		return err
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return err
	}
	s.logger.Info("vehicle added", zap.Int64("vehicle_id", vehicle.ID), zap.Int64("user_id", vehicle.UserID))
	return nil
}

// Mine returns the caller's vehicles.
func (s *VehicleService) Mine(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	return s.vehicles.ListByUser(ctx, userID)
}

// ByPlate returns the caller's vehicle with the given plate.
func (s *VehicleService) ByPlate(ctx context.Context, userID int64, plate string) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.GetByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

// Update rewrites an owned vehicle.
func (s *VehicleService) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if err := validateVehicle(vehicle); err != nil {
		return err
	}

	if existing, err := s.vehicles.GetByPlate(ctx, vehicle.NumberPlate); err == nil && existing.ID != vehicle.ID {
		return ErrPlateTaken
	} else if err != nil && !errors.Is(err, repository.ErrVehicleNotFound) {
		return err
	}

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

// Delete removes an owned vehicle.
func (s *VehicleService) Delete(ctx context.Context, userID, vehicleID int64) error {
	if err := s.vehicles.Delete(ctx, userID, vehicleID); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

func validateVehicle(vehicle *models.Vehicle) error {
	if strings.TrimSpace(vehicle.NumberPlate) == "" || vehicle.Type == "" || vehicle.Brand == "" || vehicle.Model == "" {
		return ErrVehicleInvalid
	}
	if vehicle.BatteryCapacityKWh <= 0 {
		return ErrVehicleInvalid
	}
	return nil
}
