package registration

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists users, admins and registrations in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user, generating the id when absent.
func (r *Repository) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, full_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, u.ID, u.FullName, u.Email, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail returns nil without error when no user matches.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, password_hash, created_at
		FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) CreateAdmin(ctx context.Context, a Admin) (Admin, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, a.ID, a.Email, a.PasswordHash)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE email = $1
	`, email)
	return scanAdmin(row)
}

func (r *Repository) GetAdminByID(ctx context.Context, id string) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE id = $1
	`, id)
	return scanAdmin(row)
}

func scanAdmin(row *sql.Row) (*Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

const registrationColumns = `id, user_id, full_name, email, phone, dob, school, city, grade, stream,
	guardian_name, guardian_contact, guardian_email, tshirt_size, allergies,
	accommodation, payment_status, created_at, updated_at`

// CreateRegistration inserts the extended profile. The UNIQUE constraint on
// user_id backs the at-most-one-registration-per-user invariant.
func (r *Repository) CreateRegistration(ctx context.Context, reg Registration) (Registration, error) {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.PaymentStatus == "" {
		reg.PaymentStatus = PaymentPending
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO registrations (id, user_id, full_name, email, phone, dob, school, city, grade, stream,
			guardian_name, guardian_contact, guardian_email, tshirt_size, allergies,
			accommodation, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING created_at, updated_at
	`, reg.ID, reg.UserID, reg.FullName, reg.Email, reg.Phone, reg.DOB, reg.School, reg.City,
		reg.Grade, reg.Stream, reg.GuardianName, reg.GuardianContact, reg.GuardianEmail,
		reg.TShirtSize, reg.Allergies, reg.Accommodation, reg.PaymentStatus)
	if err := row.Scan(&reg.CreatedAt, &reg.UpdatedAt); err != nil {
		return Registration{}, err
	}
	return reg, nil
}

// UpdateProfile overwrites the mutable profile fields of an existing
// registration, used by bulk import re-runs.
func (r *Repository) UpdateProfile(ctx context.Context, reg Registration) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE registrations
		SET full_name = $2, phone = $3, school = $4, city = $5, grade = $6, stream = $7,
			accommodation = $8, updated_at = NOW()
		WHERE id = $1
	`, reg.ID, reg.FullName, reg.Phone, reg.School, reg.City, reg.Grade, reg.Stream, reg.Accommodation)
	return err
}

func (r *Repository) GetRegistrationByUserID(ctx context.Context, userID string) (*Registration, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_id = $1`, userID)
	return scanRegistration(row)
}

func (r *Repository) GetRegistrationByID(ctx context.Context, id string) (*Registration, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	return scanRegistration(row)
}

func (r *Repository) GetRegistrationByEmail(ctx context.Context, email string) (*Registration, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE email = $1`, email)
	return scanRegistration(row)
}

// MarkPaymentSuccess flips payment_status for every registration matching
// the email and reports how many rows changed. Re-confirming an already
// successful registration still matches, so reissue is the defined behavior.
func (r *Repository) MarkPaymentSuccess(ctx context.Context, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE registrations SET payment_status = 'success', updated_at = NOW()
		WHERE email = $1
	`, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListRegistrations returns every registration, oldest first, for export.
func (r *Repository) ListRegistrations(ctx context.Context) ([]Registration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Registration
	for rows.Next() {
		reg, err := scanRegistrationRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func scanRegistration(row *sql.Row) (*Registration, error) {
	var reg Registration
	var dob sql.NullTime
	err := row.Scan(&reg.ID, &reg.UserID, &reg.FullName, &reg.Email, &reg.Phone, &dob,
		&reg.School, &reg.City, &reg.Grade, &reg.Stream,
		&reg.GuardianName, &reg.GuardianContact, &reg.GuardianEmail,
		&reg.TShirtSize, &reg.Allergies, &reg.Accommodation,
		&reg.PaymentStatus, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if dob.Valid {
		t := dob.Time
		reg.DOB = &t
	}
	return &reg, nil
}

func scanRegistrationRows(rows *sql.Rows) (Registration, error) {
	var reg Registration
	var dob sql.NullTime
	err := rows.Scan(&reg.ID, &reg.UserID, &reg.FullName, &reg.Email, &reg.Phone, &dob,
		&reg.School, &reg.City, &reg.Grade, &reg.Stream,
		&reg.GuardianName, &reg.GuardianContact, &reg.GuardianEmail,
		&reg.TShirtSize, &reg.Allergies, &reg.Accommodation,
		&reg.PaymentStatus, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return Registration{}, err
	}
	if dob.Valid {
		t := dob.Time
		reg.DOB = &t
	}
	return reg, nil
}
