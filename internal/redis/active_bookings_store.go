package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveBooking is cached while a charging session is in progress so dashboards
// can read occupancy without hitting the bookings table.
type ActiveBooking struct {
	BookingID     int64     `json:"booking_id"`
	Reference     string    `json:"reference"`
	UserID        int64     `json:"user_id"`
	StationID     int64     `json:"station_id"`
	ChargerNumber string    `json:"charger_number"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// Store manages the active booking cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(stationID int64, chargerNumber string) string {
	return fmt.Sprintf("bookings:active:%d:%s", stationID, chargerNumber)
}

// Save caches the active booking for its charger.
func (s *Store) Save(ctx context.Context, booking ActiveBooking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(booking.StationID, booking.ChargerNumber), data, s.ttl).Err()
}

// Get returns the cached active booking for a charger, if any.
func (s *Store) Get(ctx context.Context, stationID int64, chargerNumber string) (*ActiveBooking, error) {
	result, err := s.client.Get(ctx, s.key(stationID, chargerNumber)).Result()
	if err != nil {
		return nil, err
	}
	var booking ActiveBooking
	if err := json.Unmarshal([]byte(result), &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Delete removes the cached booking once the session ends.
func (s *Store) Delete(ctx context.Context, stationID int64, chargerNumber string) error {
	return s.client.Del(ctx, s.key(stationID, chargerNumber)).Err()
}
