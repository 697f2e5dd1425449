package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'duty_status') THEN
			CREATE TYPE duty_status AS ENUM ('OFF_DUTY', 'SLEEPER_BERTH', 'DRIVING', 'ON_DUTY_NOT_DRIVING');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'log_status') THEN
			CREATE TYPE log_status AS ENUM ('DRAFT', 'SUBMITTED', 'APPROVED', 'REJECTED', 'REQUIRES_REVIEW');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'hos_violation_type') THEN
			CREATE TYPE hos_violation_type AS ENUM ('DRIVE_TIME', 'DUTY_TIME', 'REST_BREAK', 'CYCLE_TIME', 'FORM_MANNER', 'MALFUNCTION');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'hos_violation_severity') THEN
			CREATE TYPE hos_violation_severity AS ENUM ('WARNING', 'VIOLATION', 'CRITICAL');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id UUID PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		license_number VARCHAR(64) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS daily_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		driver_id UUID NOT NULL REFERENCES drivers(id) ON DELETE CASCADE,
		log_date DATE NOT NULL,
		status log_status NOT NULL DEFAULT 'DRAFT',
		total_drive_time INTEGER NOT NULL DEFAULT 0,
		total_duty_time INTEGER NOT NULL DEFAULT 0,
		total_on_duty_time INTEGER NOT NULL DEFAULT 0,
		total_off_duty_time INTEGER NOT NULL DEFAULT 0,
		has_violations BOOLEAN NOT NULL DEFAULT FALSE,
		certified BOOLEAN NOT NULL DEFAULT FALSE,
		certified_at TIMESTAMPTZ,
		certified_by UUID,
		approved_by UUID,
		approved_at TIMESTAMPTZ,
		rejection_reason TEXT NOT NULL DEFAULT '',
		start_odometer DOUBLE PRECISION,
		end_odometer DOUBLE PRECISION,
		total_miles DOUBLE PRECISION NOT NULL DEFAULT 0,
		start_engine_hours DOUBLE PRECISION,
		end_engine_hours DOUBLE PRECISION,
		total_engine_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_daily_logs_driver_date ON daily_logs (driver_id, log_date);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_status ON daily_logs (status);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_log_date ON daily_logs (log_date);`,
	`CREATE TABLE IF NOT EXISTS duty_status_events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		daily_log_id UUID NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		status duty_status NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		address TEXT,
		odometer DOUBLE PRECISION,
		engine_hours DOUBLE PRECISION,
		notes TEXT NOT NULL DEFAULT '',
		edited_by UUID,
		edit_reason TEXT,
		original_timestamp TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_duty_events_daily_log_id ON duty_status_events (daily_log_id);`,
	`CREATE INDEX IF NOT EXISTS idx_duty_events_timestamp ON duty_status_events (timestamp);`,
	`CREATE TABLE IF NOT EXISTS hos_violations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		daily_log_id UUID NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		type hos_violation_type NOT NULL,
		severity hos_violation_severity NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_by UUID,
		resolved_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_hos_violations_daily_log_id ON hos_violations (daily_log_id);`,
	`CREATE INDEX IF NOT EXISTS idx_hos_violations_resolved ON hos_violations (resolved);`,
	`CREATE TABLE IF NOT EXISTS daily_log_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		daily_log_id UUID NOT NULL REFERENCES daily_logs(id) ON DELETE CASCADE,
		old_status log_status,
		new_status log_status NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_daily_log_status_log_log_id ON daily_log_status_log (daily_log_id);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_daily_logs_updated_at') THEN
			CREATE TRIGGER trg_daily_logs_updated_at
			BEFORE UPDATE ON daily_logs
			FOR EACH ROW EXECUTE FUNCTION set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
