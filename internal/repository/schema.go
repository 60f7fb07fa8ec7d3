package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schema statements are idempotent so the service can bootstrap an empty database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		mobile TEXT NOT NULL DEFAULT '',
		pincode TEXT NOT NULL DEFAULT '',
		profile_image TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		subscription BOOLEAN NOT NULL DEFAULT FALSE,
		subscription_start TIMESTAMPTZ,
		subscription_end TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		pincode TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'available',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chargers (
		station_id BIGINT NOT NULL REFERENCES stations(id) ON DELETE CASCADE,
		number TEXT NOT NULL,
		position INT NOT NULL,
		type TEXT NOT NULL,
		power_kw DOUBLE PRECISION NOT NULL,
		price_per_kwh DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'available',
		current_booking BIGINT,
		PRIMARY KEY (station_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		number_plate TEXT NOT NULL UNIQUE,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		battery_capacity_kwh DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id BIGSERIAL PRIMARY KEY,
		wallet_id BIGINT NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		reference TEXT NOT NULL UNIQUE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		station_id BIGINT NOT NULL REFERENCES stations(id),
		charger_number TEXT NOT NULL,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
		start_time TIMESTAMPTZ NOT NULL,
		duration_hours INT NOT NULL CHECK (duration_hours BETWEEN 1 AND 6),
		is_pre_booked BOOLEAN NOT NULL DEFAULT FALSE,
		booking_date DATE NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL CHECK (total_amount >= 0),
		payment_status TEXT NOT NULL DEFAULT 'pending',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_slot
		ON bookings (station_id, charger_number, start_time)
		WHERE status NOT IN ('completed', 'cancelled')`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id, booking_date DESC)`,
}

// Migrate applies the schema. Statements are safe to re-run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("repository: migrate: %w", err)
		}
	}
	return nil
}
