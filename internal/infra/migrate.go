package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the initial table definitions. There is no migration
// framework; tables are created once at startup and never altered here.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		phone TEXT NOT NULL UNIQUE,
		email TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		kyc_level INT NOT NULL DEFAULT 1,
		credit_limit DOUBLE PRECISION NOT NULL DEFAULT 5000,
		pin_hash BYTEA NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		user_type TEXT NOT NULL DEFAULT 'consumer',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS partner_stations (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		contact_phone TEXT,
		contact_email TEXT,
		operating_hours TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS advances (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		station_id UUID REFERENCES partner_stations(id),
		amount DOUBLE PRECISION NOT NULL,
		token TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'pending',
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		advance_id UUID NOT NULL REFERENCES advances(id),
		user_id UUID NOT NULL REFERENCES users(id),
		amount DOUBLE PRECISION NOT NULL,
		method TEXT NOT NULL,
		reference TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS otp_codes (
		id UUID PRIMARY KEY,
		phone TEXT NOT NULL,
		code TEXT NOT NULL,
		purpose TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_advances_user ON advances (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_otp_codes_phone ON otp_codes (phone)`,
}

// Migrate creates the initial schema if it does not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
