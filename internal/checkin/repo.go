package checkin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"eventreg/internal/registration"
)

// Repository persists check-ins in Postgres. Registration lookups are
// delegated to the registration repository so both stores share row mapping.
type Repository struct {
	db   *sql.DB
	regs *registration.Repository
}

func NewRepository(db *sql.DB, regs *registration.Repository) *Repository {
	return &Repository{db: db, regs: regs}
}

func (r *Repository) GetRegistrationByID(ctx context.Context, id string) (*registration.Registration, error) {
	return r.regs.GetRegistrationByID(ctx, id)
}

// FindCheckIn returns nil without error when the key has no check-in yet.
func (r *Repository) FindCheckIn(ctx context.Context, registrationID string, day int) (*CheckIn, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, registration_id, day, verified_by, created_at
		FROM checkins WHERE registration_id = $1 AND day = $2
	`, registrationID, day)
	var c CheckIn
	if err := row.Scan(&c.ID, &c.RegistrationID, &c.Day, &c.VerifiedBy, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) InsertCheckIn(ctx context.Context, c CheckIn) (CheckIn, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Day == 0 {
		c.Day = 1
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO checkins (id, registration_id, day, verified_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, c.ID, c.RegistrationID, c.Day, c.VerifiedBy)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return CheckIn{}, err
	}
	return c, nil
}

// ListAttendees returns checked-in registrants joined with their profile,
// newest scan first.
func (r *Repository) ListAttendees(ctx context.Context) ([]Attendee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT reg.id, reg.full_name, reg.email, reg.school, reg.city, reg.grade,
			reg.payment_status, c.day, c.created_at, c.verified_by
		FROM checkins c
		JOIN registrations reg ON reg.id = c.registration_id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attendee
	for rows.Next() {
		var a Attendee
		var when time.Time
		if err := rows.Scan(&a.RegistrationID, &a.Name, &a.Email, &a.School, &a.City, &a.Grade,
			&a.PaymentStatus, &a.Day, &when, &a.VerifiedBy); err != nil {
			return nil, err
		}
		a.CheckedInAt = when
		out = append(out, a)
	}
	return out, rows.Err()
}
