package database

import (
	"context"
	"database/sql"
)

// migrations are idempotent CREATE TABLE statements run at startup.
// The bookings table derives active_bay from (status, bay): it equals
// the bay while the booking is active and becomes NULL on
// cancellation, so the unique key over
// (garage_id, booking_date, time_slot, active_bay) enforces the
// one-active-booking-per-bay-per-slot invariant inside MySQL itself.
// NULLs never collide in a unique key, which is exactly what lets any
// number of cancelled bookings share a freed bay.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS garages (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		bay_count INT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		vehicle_reg VARCHAR(16) NOT NULL,
		booking_date CHAR(10) NOT NULL,
		time_slot CHAR(5) NOT NULL,
		bay INT UNSIGNED NOT NULL,
		garage_id BIGINT UNSIGNED NOT NULL,
		status ENUM('active','cancelled') NOT NULL DEFAULT 'active',
		active_bay INT UNSIGNED GENERATED ALWAYS AS (IF(status = 'active', bay, NULL)) STORED,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_active_bay (garage_id, booking_date, time_slot, active_bay),
		KEY idx_slot (garage_id, booking_date, time_slot),
		CONSTRAINT fk_bookings_garage FOREIGN KEY (garage_id) REFERENCES garages(id)
	)`,
	`CREATE TABLE IF NOT EXISTS admin_identity (
		id TINYINT UNSIGNED PRIMARY KEY,
		email VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(100) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the schema when it does not exist and seeds the
// default garage so a fresh install can take bookings immediately.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return seedDefaultGarage(ctx, db)
}

// seedDefaultGarage inserts the default two-bay garage when the
// garages table is empty.
func seedDefaultGarage(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM garages`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `INSERT INTO garages (name, bay_count) VALUES (?, ?)`, "Main MOT Garage", 2)
	return err
}
