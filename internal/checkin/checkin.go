// Package checkin records venue check-ins, first scan wins.
package checkin

import (
	"context"
	"errors"
	"time"

	"eventreg/internal/registration"
)

var ErrRegistrationNotFound = errors.New("registration not found")

// CheckIn is the append-only proof that a registrant was scanned in.
type CheckIn struct {
	ID             string
	RegistrationID string
	Day            int
	VerifiedBy     string
	CreatedAt      time.Time
}

// Attendee is the snapshot returned to the scanning admin.
type Attendee struct {
	RegistrationID string                     `json:"id"`
	Name           string                     `json:"name"`
	Email          string                     `json:"email"`
	School         string                     `json:"school"`
	City           string                     `json:"city"`
	Grade          string                     `json:"grade"`
	PaymentStatus  registration.PaymentStatus `json:"paymentStatus"`
	Day            int                        `json:"day"`
	CheckedInAt    time.Time                  `json:"checkedInAt"`
	VerifiedBy     string                     `json:"verifiedBy,omitempty"`
}

// Result distinguishes a fresh check-in from a repeat scan. A repeat scan is
// not an error state; Attendee carries the original timestamp either way.
type Result struct {
	Attendee Attendee
	Already  bool
}

// Store is the persistence slice the recorder needs.
type Store interface {
	GetRegistrationByID(ctx context.Context, id string) (*registration.Registration, error)
	FindCheckIn(ctx context.Context, registrationID string, day int) (*CheckIn, error)
	InsertCheckIn(ctx context.Context, c CheckIn) (CheckIn, error)
}

// Recorder guards the NOT_CHECKED_IN -> CHECKED_IN transition per
// (registration, day).
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record resolves the registration, then inserts the check-in unless one
// already exists for the (registration, day) key. The lookup produces the
// friendly conflict payload; the UNIQUE constraint underneath closes the
// window where two concurrent scans both see "absent". The loser of that
// race is re-read and reported as a repeat scan, not a fault.
func (r *Recorder) Record(ctx context.Context, registrationID string, day int, verifiedBy string) (Result, error) {
	reg, err := r.store.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		return Result{}, err
	}
	if reg == nil {
		return Result{}, ErrRegistrationNotFound
	}

	if existing, err := r.store.FindCheckIn(ctx, registrationID, day); err != nil {
		return Result{}, err
	} else if existing != nil {
		return Result{Attendee: attendee(reg, existing), Already: true}, nil
	}

	inserted, err := r.store.InsertCheckIn(ctx, CheckIn{
		RegistrationID: registrationID,
		Day:            day,
		VerifiedBy:     verifiedBy,
	})
	if err != nil {
		if existing, ferr := r.store.FindCheckIn(ctx, registrationID, day); ferr == nil && existing != nil {
			return Result{Attendee: attendee(reg, existing), Already: true}, nil
		}
		return Result{}, err
	}
	return Result{Attendee: attendee(reg, &inserted)}, nil
}

func attendee(reg *registration.Registration, c *CheckIn) Attendee {
	return Attendee{
		RegistrationID: reg.ID,
		Name:           reg.FullName,
		Email:          reg.Email,
		School:         reg.School,
		City:           reg.City,
		Grade:          reg.Grade,
		PaymentStatus:  reg.PaymentStatus,
		Day:            c.Day,
		CheckedInAt:    c.CreatedAt,
		VerifiedBy:     c.VerifiedBy,
	}
}
