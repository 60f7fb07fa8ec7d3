package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"voltbook/internal/metrics"
	"voltbook/internal/models"
	redisstore "voltbook/internal/redis"
	"voltbook/internal/repository"
)

// Booking failure modes. All validation happens before any mutation.
var (
	ErrStationNotFound    = errors.New("booking: station not found")
	ErrChargerNotFound    = errors.New("booking: charger not found")
	ErrChargerUnavailable = errors.New("booking: charger is not available")
	ErrInvalidDuration    = errors.New("booking: duration must be between 1 and 6 hours")
	ErrInvalidStart       = errors.New("booking: start time is required")
	ErrNegativeAmount     = errors.New("booking: amount cannot be negative")
	ErrSlotTaken          = errors.New("booking: time slot is already booked")
	ErrBookingNotFound    = errors.New("booking: not found")
	ErrTooLateToCancel    = errors.New("booking: cannot cancel within 1 hour of start time")
	ErrNotSubscribed      = errors.New("booking: only subscribers can pre-book charging slots")
	ErrInvalidStatus      = errors.New("booking: unknown status")
	ErrInvalidTransition  = errors.New("booking: status transition not permitted")
	ErrNoActiveBooking    = errors.New("booking: no active booking on charger")
)

// Minimum lead time before start for a cancellation to be permitted.
const cancelLeadTime = time.Hour

// BookingStore defines the persistence contract used by the lifecycle engine.
type BookingStore interface {
	CreateIfFree(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	ListByStationDate(ctx context.Context, stationID int64, day time.Time) ([]models.Booking, error)
	HasConflict(ctx context.Context, stationID int64, chargerNumber string, start time.Time, hours int) (bool, error)
	UpdateStatus(ctx context.Context, booking *models.Booking, newStatus string, effect *models.ChargerUpdate) error
}

// StationGetter resolves stations with their chargers.
type StationGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Station, error)
}

// UserGetter resolves users for the eligibility gate.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// BookingService orchestrates slot validation, booking creation and the status
// transitions that mutate charger state in lockstep.
type BookingService struct {
	bookings BookingStore
	stations StationGetter
	users    UserGetter
	active   *redisstore.Store
	logger   *zap.Logger
}

// NewBookingService builds the service. The active-booking cache may be nil.
func NewBookingService(
	bookings BookingStore,
	stations StationGetter,
	users UserGetter,
	active *redisstore.Store,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		stations: stations,
		users:    users,
		active:   active,
		logger:   logger,
	}
}

// CreateBookingInput carries a booking request.
type CreateBookingInput struct {
	UserID        int64
	StationID     int64
	ChargerNumber string
	VehicleID     int64
	StartTime     time.Time
	DurationHours int
	IsPreBooked   bool
	BookingDate   time.Time
	TotalAmount   float64
}

// Create validates the request and persists a pending booking. The storage
// layer re-checks the overlap inside its transaction, so a passing pre-check
// here is advisory only.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	now := time.Now().UTC()

	if input.IsPreBooked {
		user, err := s.users.GetByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, err
		}
		if !user.CanPreBook(now) {
			return nil, ErrNotSubscribed
		}
	}

	station, err := s.stations.GetByID(ctx, input.StationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	charger := station.FindCharger(input.ChargerNumber)
	if charger == nil || charger.Status != models.ChargerStatusAvailable {
		return nil, ErrChargerUnavailable
	}

	if input.DurationHours < models.MinBookingHours || input.DurationHours > models.MaxBookingHours {
		return nil, ErrInvalidDuration
	}
	if input.StartTime.IsZero() {
		return nil, ErrInvalidStart
	}
	if input.TotalAmount < 0 {
		return nil, ErrNegativeAmount
	}

	conflict, err := s.bookings.HasConflict(ctx, input.StationID, input.ChargerNumber, input.StartTime, input.DurationHours)
	if err != nil {
		return nil, err
	}
	if conflict {
		metrics.IncBookingConflict()
		return nil, ErrSlotTaken
	}

	bookingDate := input.BookingDate
	if bookingDate.IsZero() {
		bookingDate = input.StartTime
	}

	booking := &models.Booking{
		Reference:     uuid.NewString(),
		UserID:        input.UserID,
		StationID:     input.StationID,
		ChargerNumber: input.ChargerNumber,
		VehicleID:     input.VehicleID,
		StartTime:     input.StartTime.UTC(),
		DurationHours: input.DurationHours,
		IsPreBooked:   input.IsPreBooked,
		BookingDate:   bookingDate,
		TotalAmount:   input.TotalAmount,
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.BookingStatusPending,
	}

	if err := s.bookings.CreateIfFree(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotConflict):
			metrics.IncBookingConflict()
			return nil, ErrSlotTaken
		case errors.Is(err, repository.ErrChargerUnavailable):
			return nil, ErrChargerUnavailable
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference", booking.Reference),
		zap.Int64("station_id", booking.StationID),
		zap.String("charger", booking.ChargerNumber),
		zap.Time("start", booking.StartTime),
		zap.Int("hours", booking.DurationHours),
	)
	return booking, nil
}

// UpdateStatus drives a lifecycle transition. The charger effect for the
// (old, new) pair is applied atomically with the booking update.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, newStatus string) (*models.Booking, error) {
	if !models.ValidBookingStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	effect, err := chargerEffect(booking, newStatus)
	if err != nil {
		return nil, err
	}

	wasActive := booking.Status == models.BookingStatusActive
	if err := s.bookings.UpdateStatus(ctx, booking, newStatus, effect); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	s.syncActiveCache(ctx, booking, wasActive)
	s.logger.Info("booking status updated",
		zap.Int64("booking_id", booking.ID),
		zap.String("status", newStatus),
	)
	return booking, nil
}

// Cancel applies the cancellation policy: permitted strictly more than one
// hour before start, measured against wall-clock time at the request.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.ownedBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	if time.Until(booking.StartTime) < cancelLeadTime {
		return nil, ErrTooLateToCancel
	}

	effect, err := chargerEffect(booking, models.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	wasActive := booking.Status == models.BookingStatusActive
	if err := s.bookings.UpdateStatus(ctx, booking, models.BookingStatusCancelled, effect); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	metrics.IncBookingCancelled()
	s.syncActiveCache(ctx, booking, wasActive)
	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", userID),
	)
	return booking, nil
}

// CheckAvailability is a pure read: charger must be available and the window
// free of non-terminal bookings. No persistence side effect.
func (s *BookingService) CheckAvailability(ctx context.Context, stationID int64, chargerNumber string, start time.Time, hours int) (bool, error) {
	if hours < models.MinBookingHours || hours > models.MaxBookingHours {
		return false, ErrInvalidDuration
	}

	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return false, ErrStationNotFound
		}
		return false, err
	}

	charger := station.FindCharger(chargerNumber)
	if charger == nil {
		return false, ErrChargerNotFound
	}
	if charger.Status != models.ChargerStatusAvailable {
		return false, nil
	}

	conflict, err := s.bookings.HasConflict(ctx, stationID, chargerNumber, start, hours)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// BookingsForUser returns the caller's booking history.
func (s *BookingService) BookingsForUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// BookingByID returns a booking only to its owner.
func (s *BookingService) BookingByID(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	return s.ownedBooking(ctx, bookingID, userID)
}

// StationBookings returns a station's non-cancelled bookings on a calendar day.
func (s *BookingService) StationBookings(ctx context.Context, stationID int64, day time.Time) ([]models.Booking, error) {
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return s.bookings.ListByStationDate(ctx, stationID, day)
}

// ActiveOnCharger returns the cached in-progress booking for a charger.
func (s *BookingService) ActiveOnCharger(ctx context.Context, stationID int64, chargerNumber string) (*redisstore.ActiveBooking, error) {
	if s.active == nil {
		return nil, ErrNoActiveBooking
	}
	booking, err := s.active.Get(ctx, stationID, chargerNumber)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNoActiveBooking
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ownedBooking(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	// A foreign booking behaves as missing; ownership is not disclosed.
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) syncActiveCache(ctx context.Context, booking *models.Booking, wasActive bool) {
	if s.active == nil {
		return
	}
	switch {
	case booking.Status == models.BookingStatusActive:
		err := s.active.Save(ctx, redisstore.ActiveBooking{
			BookingID:     booking.ID,
			Reference:     booking.Reference,
			UserID:        booking.UserID,
			StationID:     booking.StationID,
			ChargerNumber: booking.ChargerNumber,
			StartTime:     booking.StartTime,
			EndTime:       booking.EndTime(),
		})
		if err != nil {
			s.logger.Warn("failed to cache active booking", zap.Int64("booking_id", booking.ID), zap.Error(err))
		}
	case wasActive && booking.IsTerminal():
		if err := s.active.Delete(ctx, booking.StationID, booking.ChargerNumber); err != nil && !errors.Is(err, goredis.Nil) {
			s.logger.Warn("failed to evict active booking cache", zap.Int64("booking_id", booking.ID), zap.Error(err))
		}
	}
}

// chargerEffect maps a booking status transition to the charger mutation that
// must accompany it. Undefined pairs, including anything out of a terminal
// status, are rejected rather than silently accepted.
func chargerEffect(booking *models.Booking, newStatus string) (*models.ChargerUpdate, error) {
	switch {
	case booking.Status == models.BookingStatusPending && newStatus == models.BookingStatusActive:
		id := booking.ID
		return &models.ChargerUpdate{Status: models.ChargerStatusInUse, CurrentBooking: &id}, nil
	case booking.Status == models.BookingStatusActive && newStatus == models.BookingStatusCompleted:
		return &models.ChargerUpdate{Status: models.ChargerStatusAvailable}, nil
	case booking.Status == models.BookingStatusActive && newStatus == models.BookingStatusCancelled:
		return &models.ChargerUpdate{Status: models.ChargerStatusAvailable}, nil
	case booking.Status == models.BookingStatusPending && newStatus == models.BookingStatusCancelled:
		return nil, nil
	}
	return nil, ErrInvalidTransition
}
