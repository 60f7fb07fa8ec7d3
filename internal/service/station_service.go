package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/repository"
)

// Station validation failure modes.
var (
	ErrStationInvalid = errors.New("station: invalid station data")
	ErrNoChargers     = errors.New("station: at least one charger is required")
	ErrChargerInvalid = errors.New("station: invalid charger data")
)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// StationStore defines the persistence contract for station CRUD.
type StationStore interface {
	Create(ctx context.Context, station *models.Station) error
	Update(ctx context.Context, station *models.Station) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	List(ctx context.Context) ([]models.Station, error)
	ListByPincode(ctx context.Context, pincode string) ([]models.Station, error)
	SetChargerStatus(ctx context.Context, stationID int64, number string, update models.ChargerUpdate) error
}

// StationService owns inventory CRUD and charger-list validation.
type StationService struct {
	stations StationStore
	logger   *zap.Logger
}

// NewStationService builds service.
func NewStationService(stations StationStore, logger *zap.Logger) *StationService {
	return &StationService{stations: stations, logger: logger}
}

// Create validates and persists a new station with its chargers.
func (s *StationService) Create(ctx context.Context, station *models.Station) error {
	if err := validateStation(station); err != nil {
		return err
	}
	if station.Status == "" {
		station.Status = models.StationStatusAvailable
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return err
	}
	s.logger.Info("station created", zap.Int64("station_id", station.ID), zap.Int("chargers", len(station.Chargers)))
	return nil
}

// Update validates and rewrites an existing station.
func (s *StationService) Update(ctx context.Context, station *models.Station) error {
	if err := validateStation(station); err != nil {
		return err
	}
	if err := s.stations.Update(ctx, station); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	return nil
}

// Delete removes a station and its chargers.
func (s *StationService) Delete(ctx context.Context, id int64) error {
	if err := s.stations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	s.logger.Info("station deleted", zap.Int64("station_id", id))
	return nil
}

// Get returns one station with chargers.
func (s *StationService) Get(ctx context.Context, id int64) (*models.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// List returns all stations.
func (s *StationService) List(ctx context.Context) ([]models.Station, error) {
	return s.stations.List(ctx)
}

// ListByPincode returns stations in a postal area.
func (s *StationService) ListByPincode(ctx context.Context, pincode string) ([]models.Station, error) {
	return s.stations.ListByPincode(ctx, pincode)
}

// SetChargerStatus toggles a charger between available and maintenance.
// in_use is reserved for the booking lifecycle.
func (s *StationService) SetChargerStatus(ctx context.Context, stationID int64, number, status string) error {
	if status != models.ChargerStatusAvailable && status != models.ChargerStatusMaintenance {
		return ErrChargerInvalid
	}
	err := s.stations.SetChargerStatus(ctx, stationID, number, models.ChargerUpdate{Status: status})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStationNotFound):
			return ErrStationNotFound
		case errors.Is(err, repository.ErrChargerNotFound):
			return ErrChargerNotFound
		}
		return err
	}
	s.logger.Info("charger status changed",
		zap.Int64("station_id", stationID),
		zap.String("charger", number),
		zap.String("status", status),
	)
	return nil
}

func validateStation(station *models.Station) error {
	if station.Name == "" || station.Address == "" {
		return ErrStationInvalid
	}
	if !pincodePattern.MatchString(station.Pincode) {
		return ErrStationInvalid
	}
	if len(station.Chargers) == 0 {
		return ErrNoChargers
	}
	for i := range station.Chargers {
		c := &station.Chargers[i]
		if c.Number == "" {
			return ErrChargerInvalid
		}
		if c.Type != models.ChargerTypeAC && c.Type != models.ChargerTypeDC {
			return ErrChargerInvalid
		}
		if c.PowerKW <= 0 || c.PricePerKWh <= 0 {
			return ErrChargerInvalid
		}
	}
	return nil
}
