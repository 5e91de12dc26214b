package registration

import (
	"context"
	"errors"
	"testing"

	"eventreg/internal/auth"
)

type fakeStore struct {
	users  map[string]*User
	admins map[string]*Admin
	regs   map[string]*Registration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[string]*User{},
		admins: map[string]*Admin{},
		regs:   map[string]*Registration{},
	}
}

func (s *fakeStore) CreateUser(_ context.Context, u User) (User, error) {
	u.ID = "u-" + u.Email
	s.users[u.Email] = &u
	return u, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	return s.users[email], nil
}

func (s *fakeStore) GetUserByID(_ context.Context, id string) (*User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateAdmin(_ context.Context, a Admin) (Admin, error) {
	a.ID = "a-" + a.Email
	s.admins[a.Email] = &a
	return a, nil
}

func (s *fakeStore) GetAdminByEmail(_ context.Context, email string) (*Admin, error) {
	return s.admins[email], nil
}

func (s *fakeStore) GetAdminByID(_ context.Context, id string) (*Admin, error) {
	for _, a := range s.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateRegistration(_ context.Context, reg Registration) (Registration, error) {
	reg.ID = "r-" + reg.Email
	s.regs[reg.UserID] = &reg
	return reg, nil
}

func (s *fakeStore) GetRegistrationByUserID(_ context.Context, userID string) (*Registration, error) {
	return s.regs[userID], nil
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.RegisterUser(ctx, "Imposter", "a@x.com", "password456"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.PasswordHash == "password123" {
		t.Fatal("password stored in plaintext")
	}

	u, err := svc.Authenticate(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("got user %s, want %s", u.ID, created.ID)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@x.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestCreateProfile(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	reg, err := svc.CreateProfile(ctx, u.ID, ProfileInput{School: "State High", City: "Pune", Grade: "10"})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if reg.FullName != "Alice" || reg.Email != "a@x.com" {
		t.Fatalf("profile must copy identity from the user record, got %q/%q", reg.FullName, reg.Email)
	}
	if reg.PaymentStatus != PaymentPending {
		t.Fatalf("new profile status = %q, want pending", reg.PaymentStatus)
	}

	if _, err := svc.CreateProfile(ctx, u.ID, ProfileInput{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second profile: got %v, want ErrAlreadyRegistered", err)
	}
	if _, err := svc.CreateProfile(ctx, "ghost", ProfileInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestPaymentState(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.PaymentState(ctx, u.ID); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("no profile: got %v, want ErrNotRegistered", err)
	}

	if _, err := svc.CreateProfile(ctx, u.ID, ProfileInput{}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	status, err := svc.PaymentState(ctx, u.ID)
	if err != nil {
		t.Fatalf("PaymentState: %v", err)
	}
	if status != PaymentPending {
		t.Fatalf("status = %q, want pending", status)
	}
}

func TestAdminEmailByID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin, err := store.CreateAdmin(ctx, Admin{Email: "admin@x.com", PasswordHash: hash})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	email, err := svc.AdminEmailByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("AdminEmailByID: %v", err)
	}
	if email != "admin@x.com" {
		t.Fatalf("email = %q", email)
	}
	if _, err := svc.AdminEmailByID(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown admin: got %v, want ErrNotFound", err)
	}
}
