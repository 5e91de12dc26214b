package checkin

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventreg/internal/registration"
)

type fakeStore struct {
	reg      *registration.Registration
	existing map[int]*CheckIn

	insertErr error
	inserted  int
	// raceOnInsert simulates a concurrent scan landing between the lookup
	// and the insert: the insert hits the unique constraint and the
	// conflicting row becomes visible on the next lookup.
	raceOnInsert bool
}

func (s *fakeStore) GetRegistrationByID(_ context.Context, id string) (*registration.Registration, error) {
	if s.reg != nil && s.reg.ID == id {
		return s.reg, nil
	}
	return nil, nil
}

func (s *fakeStore) FindCheckIn(_ context.Context, _ string, day int) (*CheckIn, error) {
	return s.existing[day], nil
}

func (s *fakeStore) InsertCheckIn(_ context.Context, c CheckIn) (CheckIn, error) {
	if s.raceOnInsert {
		s.existing[c.Day] = &CheckIn{
			ID:             "race-winner",
			RegistrationID: c.RegistrationID,
			Day:            c.Day,
			VerifiedBy:     "other-admin",
			CreatedAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		}
		return CheckIn{}, errors.New("duplicate key value violates unique constraint")
	}
	if s.insertErr != nil {
		return CheckIn{}, s.insertErr
	}
	c.ID = "ck-1"
	c.CreatedAt = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	s.existing[c.Day] = &c
	s.inserted++
	return c, nil
}

func testReg() *registration.Registration {
	return &registration.Registration{
		ID:            "reg-1",
		FullName:      "Alice",
		Email:         "alice@x.com",
		School:        "State High",
		PaymentStatus: registration.PaymentSuccess,
	}
}

func TestRecordFirstScan(t *testing.T) {
	store := &fakeStore{reg: testReg(), existing: map[int]*CheckIn{}}
	rec := NewRecorder(store)

	res, err := rec.Record(context.Background(), "reg-1", 1, "admin@x.com")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if res.Already {
		t.Fatal("first scan reported as repeat")
	}
	if res.Attendee.Name != "Alice" || res.Attendee.Day != 1 {
		t.Fatalf("attendee snapshot wrong: %+v", res.Attendee)
	}
	if res.Attendee.VerifiedBy != "admin@x.com" {
		t.Fatalf("verifier not recorded: %q", res.Attendee.VerifiedBy)
	}
	if store.inserted != 1 {
		t.Fatalf("expected one insert, got %d", store.inserted)
	}
}

func TestRecordRepeatScanKeepsOriginalTimestamp(t *testing.T) {
	store := &fakeStore{reg: testReg(), existing: map[int]*CheckIn{}}
	rec := NewRecorder(store)

	first, err := rec.Record(context.Background(), "reg-1", 1, "admin@x.com")
	if err != nil {
		t.Fatalf("first Record: %v", err)
	}
	second, err := rec.Record(context.Background(), "reg-1", 1, "another@x.com")
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if !second.Already {
		t.Fatal("repeat scan not flagged")
	}
	if !second.Attendee.CheckedInAt.Equal(first.Attendee.CheckedInAt) {
		t.Fatal("repeat scan must report the original check-in time")
	}
	if store.inserted != 1 {
		t.Fatalf("repeat scan inserted a row, total %d", store.inserted)
	}
}

func TestRecordSeparateDaysAreIndependent(t *testing.T) {
	store := &fakeStore{reg: testReg(), existing: map[int]*CheckIn{}}
	rec := NewRecorder(store)

	if _, err := rec.Record(context.Background(), "reg-1", 1, ""); err != nil {
		t.Fatalf("day 1: %v", err)
	}
	res, err := rec.Record(context.Background(), "reg-1", 2, "")
	if err != nil {
		t.Fatalf("day 2: %v", err)
	}
	if res.Already {
		t.Fatal("day 2 scan blocked by day 1 check-in")
	}
}

func TestRecordInsertConflictReportsRepeat(t *testing.T) {
	store := &fakeStore{reg: testReg(), existing: map[int]*CheckIn{}, raceOnInsert: true}
	rec := NewRecorder(store)

	res, err := rec.Record(context.Background(), "reg-1", 1, "loser@x.com")
	if err != nil {
		t.Fatalf("losing a concurrent race is not a fault: %v", err)
	}
	if !res.Already {
		t.Fatal("race loser must see the repeat outcome")
	}
	if res.Attendee.VerifiedBy != "other-admin" {
		t.Fatalf("repeat must carry the winner's record, got %q", res.Attendee.VerifiedBy)
	}
}

func TestRecordInsertFailurePropagates(t *testing.T) {
	insertErr := errors.New("connection reset")
	store := &fakeStore{reg: testReg(), existing: map[int]*CheckIn{}, insertErr: insertErr}
	rec := NewRecorder(store)

	if _, err := rec.Record(context.Background(), "reg-1", 1, ""); !errors.Is(err, insertErr) {
		t.Fatalf("got %v, want insert error", err)
	}
}

func TestRecordUnknownRegistration(t *testing.T) {
	store := &fakeStore{existing: map[int]*CheckIn{}}
	rec := NewRecorder(store)

	if _, err := rec.Record(context.Background(), "missing", 1, ""); !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("got %v, want ErrRegistrationNotFound", err)
	}
}
