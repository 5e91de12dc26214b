package store

import "database/sql"

// Migrate applies the schema. Statements are idempotent so startup can run
// them unconditionally.
//
// The UNIQUE (registration_id, day) pair on checkins is what makes duplicate
// check-in prevention hold under concurrent scans; the service-level lookup
// only exists to produce a friendly conflict payload.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE REFERENCES users(id),
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			dob DATE,
			school TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			grade TEXT NOT NULL DEFAULT '',
			stream TEXT NOT NULL DEFAULT '',
			guardian_name TEXT NOT NULL DEFAULT '',
			guardian_contact TEXT NOT NULL DEFAULT '',
			guardian_email TEXT NOT NULL DEFAULT '',
			tshirt_size TEXT NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '',
			accommodation BOOLEAN NOT NULL DEFAULT FALSE,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_email ON registrations (email)`,
		`CREATE TABLE IF NOT EXISTS checkins (
			id UUID PRIMARY KEY,
			registration_id UUID NOT NULL REFERENCES registrations(id),
			day INT NOT NULL DEFAULT 1,
			verified_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (registration_id, day)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
