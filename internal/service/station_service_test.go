package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/repository"
)

type fakeStationStore struct {
	mu       sync.Mutex
	nextID   int64
	stations map[int64]*models.Station
}

func newFakeStationStore() *fakeStationStore {
	return &fakeStationStore{stations: make(map[int64]*models.Station)}
}

func (f *fakeStationStore) Create(_ context.Context, station *models.Station) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	station.ID = f.nextID
	stored := *station
	f.stations[station.ID] = &stored
	return nil
}

func (f *fakeStationStore) Update(_ context.Context, station *models.Station) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stations[station.ID]; !ok {
		return repository.ErrStationNotFound
	}
	stored := *station
	f.stations[station.ID] = &stored
	return nil
}

func (f *fakeStationStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stations[id]; !ok {
		return repository.ErrStationNotFound
	}
	delete(f.stations, id)
	return nil
}

func (f *fakeStationStore) GetByID(_ context.Context, id int64) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	station, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	copied := *station
	return &copied, nil
}

func (f *fakeStationStore) List(_ context.Context) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Station, 0, len(f.stations))
	for _, station := range f.stations {
		out = append(out, *station)
	}
	return out, nil
}

func (f *fakeStationStore) ListByPincode(_ context.Context, pincode string) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Station
	for _, station := range f.stations {
		if station.Pincode == pincode {
			out = append(out, *station)
		}
	}
	return out, nil
}

func (f *fakeStationStore) SetChargerStatus(_ context.Context, stationID int64, number string, update models.ChargerUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	station, ok := f.stations[stationID]
	if !ok {
		return repository.ErrStationNotFound
	}
	charger := station.FindCharger(number)
	if charger == nil {
		return repository.ErrChargerNotFound
	}
	charger.Status = update.Status
	charger.CurrentBooking = update.CurrentBooking
	return nil
}

func validStation() *models.Station {
	return &models.Station{
		Name:    "Central Plaza",
		Address: "12 MG Road",
		Pincode: "560001",
		Chargers: []models.Charger{
			{Number: "A1", Type: models.ChargerTypeAC, PowerKW: 22, PricePerKWh: 8},
			{Number: "D1", Type: models.ChargerTypeDC, PowerKW: 60, PricePerKWh: 14},
		},
	}
}

func TestStationValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *models.Station)
		wantErr error
	}{
		{"missing name", func(s *models.Station) { s.Name = "" }, ErrStationInvalid},
		{"missing address", func(s *models.Station) { s.Address = "" }, ErrStationInvalid},
		{"short pincode", func(s *models.Station) { s.Pincode = "5600" }, ErrStationInvalid},
		{"alpha pincode", func(s *models.Station) { s.Pincode = "56OO01" }, ErrStationInvalid},
		{"no chargers", func(s *models.Station) { s.Chargers = nil }, ErrNoChargers},
		{"unnumbered charger", func(s *models.Station) { s.Chargers[0].Number = "" }, ErrChargerInvalid},
		{"bad charger type", func(s *models.Station) { s.Chargers[0].Type = "solar" }, ErrChargerInvalid},
		{"zero power", func(s *models.Station) { s.Chargers[1].PowerKW = 0 }, ErrChargerInvalid},
		{"negative price", func(s *models.Station) { s.Chargers[1].PricePerKWh = -1 }, ErrChargerInvalid},
	}

	svc := NewStationService(newFakeStationStore(), zap.NewNop())
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station := validStation()
			tt.mutate(station)
			err := svc.Create(ctx, station)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStationCreateDefaultsStatus(t *testing.T) {
	store := newFakeStationStore()
	svc := NewStationService(store, zap.NewNop())
	ctx := context.Background()

	station := validStation()
	require.NoError(t, svc.Create(ctx, station))
	assert.NotZero(t, station.ID)

	got, err := svc.Get(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StationStatusAvailable, got.Status)
	assert.Len(t, got.Chargers, 2)
}

func TestStationUpdateAndDelete(t *testing.T) {
	store := newFakeStationStore()
	svc := NewStationService(store, zap.NewNop())
	ctx := context.Background()

	station := validStation()
	require.NoError(t, svc.Create(ctx, station))

	station.Name = "Central Plaza East"
	station.Chargers = station.Chargers[:1]
	require.NoError(t, svc.Update(ctx, station))

	got, err := svc.Get(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central Plaza East", got.Name)
	assert.Len(t, got.Chargers, 1)

	missing := validStation()
	missing.ID = 999
	assert.ErrorIs(t, svc.Update(ctx, missing), ErrStationNotFound)

	require.NoError(t, svc.Delete(ctx, station.ID))
	_, err = svc.Get(ctx, station.ID)
	assert.ErrorIs(t, err, ErrStationNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, station.ID), ErrStationNotFound)
}

func TestSetChargerStatus(t *testing.T) {
	store := newFakeStationStore()
	svc := NewStationService(store, zap.NewNop())
	ctx := context.Background()

	station := validStation()
	require.NoError(t, svc.Create(ctx, station))

	require.NoError(t, svc.SetChargerStatus(ctx, station.ID, "A1", models.ChargerStatusMaintenance))
	got, err := svc.Get(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChargerStatusMaintenance, got.FindCharger("A1").Status)

	// in_use is driven by bookings, not by hand.
	assert.ErrorIs(t, svc.SetChargerStatus(ctx, station.ID, "A1", models.ChargerStatusInUse), ErrChargerInvalid)
	assert.ErrorIs(t, svc.SetChargerStatus(ctx, station.ID, "Z9", models.ChargerStatusAvailable), ErrChargerNotFound)
	assert.ErrorIs(t, svc.SetChargerStatus(ctx, 999, "A1", models.ChargerStatusAvailable), ErrStationNotFound)
}

func TestStationListByPincode(t *testing.T) {
	store := newFakeStationStore()
	svc := NewStationService(store, zap.NewNop())
	ctx := context.Background()

	first := validStation()
	require.NoError(t, svc.Create(ctx, first))

	second := validStation()
	second.Name = "Airport Lot"
	second.Pincode = "560300"
	require.NoError(t, svc.Create(ctx, second))

	got, err := svc.ListByPincode(ctx, "560300")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Airport Lot", got[0].Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
