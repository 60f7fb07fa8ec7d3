package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltbook/internal/models"
	"voltbook/internal/repository"
)

type fakeVehicleStore struct {
	nextID   int64
	vehicles map[int64]*models.Vehicle
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: make(map[int64]*models.Vehicle)}
}

func (f *fakeVehicleStore) Create(_ context.Context, vehicle *models.Vehicle) error {
	f.nextID++
	vehicle.ID = f.nextID
	stored := *vehicle
	f.vehicles[vehicle.ID] = &stored
	return nil
}

func (f *fakeVehicleStore) GetByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.NumberPlate == plate {
			copied := *v
			return &copied, nil
		}
	}
	return nil, repository.ErrVehicleNotFound
}

func (f *fakeVehicleStore) GetForUser(_ context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	v, ok := f.vehicles[vehicleID]
	if !ok || v.UserID != userID {
		return nil, repository.ErrVehicleNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVehicleStore) ListByUser(_ context.Context, userID int64) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range f.vehicles {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVehicleStore) Update(_ context.Context, vehicle *models.Vehicle) error {
	v, ok := f.vehicles[vehicle.ID]
	if !ok || v.UserID != vehicle.UserID {
		return repository.ErrVehicleNotFound
	}
	stored := *vehicle
	f.vehicles[vehicle.ID] = &stored
	return nil
}

func (f *fakeVehicleStore) Delete(_ context.Context, userID, vehicleID int64) error {
	v, ok := f.vehicles[vehicleID]
	if !ok || v.UserID != userID {
		return repository.ErrVehicleNotFound
	}
	delete(f.vehicles, vehicleID)
	return nil
}

func validVehicle(userID int64, plate string) *models.Vehicle {
	return &models.Vehicle{
		UserID:             userID,
		Type:               "car",
		NumberPlate:        plate,
		Brand:              "Tata",
		Model:              "Nexon EV",
		BatteryCapacityKWh: 40.5,
	}
}

func TestVehicleAddAndPlateUniqueness(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleStore(), zap.NewNop())
	ctx := context.Background()

	first := validVehicle(1, "KA01AB1234")
	require.NoError(t, svc.Add(ctx, first))
	assert.NotZero(t, first.ID)

	// Same plate, even for another user.
	dup := validVehicle(2, "KA01AB1234")
	assert.ErrorIs(t, svc.Add(ctx, dup), ErrPlateTaken)
}

func TestVehicleValidation(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleStore(), zap.NewNop())
	ctx := context.Background()

	for _, mutate := range []func(*models.Vehicle){
		func(v *models.Vehicle) { v.NumberPlate = "  " },
		func(v *models.Vehicle) { v.Type = "" },
		func(v *models.Vehicle) { v.Brand = "" },
		func(v *models.Vehicle) { v.Model = "" },
		func(v *models.Vehicle) { v.BatteryCapacityKWh = 0 },
	} {
		v := validVehicle(1, "KA01AB1234")
		mutate(v)
		assert.ErrorIs(t, svc.Add(ctx, v), ErrVehicleInvalid)
	}
}

func TestVehicleByPlateOwnerScoped(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, validVehicle(1, "KA01AB1234")))

	got, err := svc.ByPlate(ctx, 1, "KA01AB1234")
	require.NoError(t, err)
	assert.Equal(t, "Nexon EV", got.Model)

	_, err = svc.ByPlate(ctx, 2, "KA01AB1234")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestVehicleUpdate(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleStore(), zap.NewNop())
	ctx := context.Background()

	mine := validVehicle(1, "KA01AB1234")
	require.NoError(t, svc.Add(ctx, mine))
	other := validVehicle(1, "KA05XY9999")
	require.NoError(t, svc.Add(ctx, other))

	// Keeping your own plate is fine.
	mine.Model = "Nexon EV Max"
	require.NoError(t, svc.Update(ctx, mine))

	// Taking another vehicle's plate is not.
	mine.NumberPlate = "KA05XY9999"
	assert.ErrorIs(t, svc.Update(ctx, mine), ErrPlateTaken)
}

func TestVehicleDelete(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleStore(), zap.NewNop())
	ctx := context.Background()

	v := validVehicle(1, "KA01AB1234")
	require.NoError(t, svc.Add(ctx, v))

	assert.ErrorIs(t, svc.Delete(ctx, 2, v.ID), ErrVehicleNotFound)
	require.NoError(t, svc.Delete(ctx, 1, v.ID))

	got, err := svc.Mine(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}
