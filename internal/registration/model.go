package registration

import (
	"errors"
	"time"
)

// PaymentStatus moves pending -> success and is never reverted.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("registration already exists")
	ErrNotRegistered      = errors.New("no registration for user")
	ErrNotFound           = errors.New("not found")
)

// User is the bare credential identity created on self-registration.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Admin is a separate credential principal, disjoint from User.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Registration is the one-per-user extended profile plus payment status.
// The same shape serves both the self-service flow (guardian details,
// t-shirt size) and bulk-imported rows (college, stream, accommodation);
// unused fields stay empty.
type Registration struct {
	ID              string
	UserID          string
	FullName        string
	Email           string
	Phone           string
	DOB             *time.Time
	School          string
	City            string
	Grade           string
	Stream          string
	GuardianName    string
	GuardianContact string
	GuardianEmail   string
	TShirtSize      string
	Allergies       string
	Accommodation   bool
	PaymentStatus   PaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
