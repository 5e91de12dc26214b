package registration

import (
	"context"
	"time"

	"eventreg/internal/auth"
)

// Store is the slice of the repository the service needs.
type Store interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	CreateAdmin(ctx context.Context, a Admin) (Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	GetAdminByID(ctx context.Context, id string) (*Admin, error)
	CreateRegistration(ctx context.Context, reg Registration) (Registration, error)
	GetRegistrationByUserID(ctx context.Context, userID string) (*Registration, error)
}

// Service implements account and registration lifecycle operations.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// RegisterUser creates a credential identity. Registering the same email
// twice returns ErrEmailTaken and leaves the first record untouched.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (User, error) {
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, ErrEmailTaken
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, User{FullName: name, Email: email, PasswordHash: hash})
}

// Authenticate verifies user credentials. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return *u, nil
}

func (s *Service) RegisterAdmin(ctx context.Context, email, password string) (Admin, error) {
	existing, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return Admin{}, err
	}
	if existing != nil {
		return Admin{}, ErrEmailTaken
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Admin{}, err
	}
	return s.store.CreateAdmin(ctx, Admin{Email: email, PasswordHash: hash})
}

func (s *Service) AuthenticateAdmin(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		return Admin{}, err
	}
	if a == nil || !auth.CheckPassword(a.PasswordHash, password) {
		return Admin{}, ErrInvalidCredentials
	}
	return *a, nil
}

// ProfileInput carries the extended-profile fields supplied on registration.
type ProfileInput struct {
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
}

// CreateProfile creates the one-per-user registration. Name and email are
// copied from the credential record, never taken from the request.
func (s *Service) CreateProfile(ctx context.Context, userID string, in ProfileInput) (Registration, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Registration{}, err
	}
	if u == nil {
		return Registration{}, ErrNotFound
	}
	existing, err := s.store.GetRegistrationByUserID(ctx, userID)
	if err != nil {
		return Registration{}, err
	}
	if existing != nil {
		return Registration{}, ErrAlreadyRegistered
	}
	return s.store.CreateRegistration(ctx, Registration{
		UserID:          userID,
		FullName:        u.FullName,
		Email:           u.Email,
		Phone:           in.Phone,
		DOB:             in.DOB,
		School:          in.School,
		City:            in.City,
		Grade:           in.Grade,
		Stream:          in.Stream,
		GuardianName:    in.GuardianName,
		GuardianContact: in.GuardianContact,
		GuardianEmail:   in.GuardianEmail,
		TShirtSize:      in.TShirtSize,
		Allergies:       in.Allergies,
		Accommodation:   in.Accommodation,
		PaymentStatus:   PaymentPending,
	})
}

// HasProfile is the boolean probe behind the registration-existence check.
func (s *Service) HasProfile(ctx context.Context, userID string) (bool, error) {
	reg, err := s.store.GetRegistrationByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return reg != nil, nil
}

// PaymentState returns the payment status of the caller's registration.
func (s *Service) PaymentState(ctx context.Context, userID string) (PaymentStatus, error) {
	reg, err := s.store.GetRegistrationByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if reg == nil {
		return "", ErrNotRegistered
	}
	return reg.PaymentStatus, nil
}

// UserExists backs the session middleware.
func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// AdminEmailByID backs the admin middleware; unknown ids are an error so the
// middleware rejects tokens of deleted admins.
func (s *Service) AdminEmailByID(ctx context.Context, adminID string) (string, error) {
	a, err := s.store.GetAdminByID(ctx, adminID)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", ErrNotFound
	}
	return a.Email, nil
}
