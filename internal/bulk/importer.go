// Package bulk processes uploaded CSV batches row by row. Rows are
// independent: there is no cross-row transaction and a failure never aborts
// the batch. Every row ends up in exactly one of three outcomes.
package bulk

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventreg/internal/auth"
	"eventreg/internal/mail"
	"eventreg/internal/metrics"
	"eventreg/internal/qr"
	"eventreg/internal/registration"
)

// Outcome classifies one processed row.
type Outcome string

const (
	// OutcomeProcessed means the row's writes completed and its
	// notification was dispatched.
	OutcomeProcessed Outcome = "processed"
	// OutcomeFailed means the row was attempted and its unit errored
	// (not found, storage error, mail delivery error).
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the row was never attempted; the only cause is
	// a missing email field.
	OutcomeSkipped Outcome = "skipped"
)

// RowResult reports one row back to the caller.
type RowResult struct {
	Email  string  `json:"email"`
	Name   string  `json:"name,omitempty"`
	Status Outcome `json:"status"`
	Reason string  `json:"reason,omitempty"`
}

// Summary is the batch response; Processed+Failed+Skipped always equals the
// number of submitted rows.
type Summary struct {
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped"`
	Rows      []RowResult `json:"rows"`
}

func (s *Summary) add(res RowResult) {
	switch res.Status {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	}
	s.Rows = append(s.Rows, res)
}

// Store is the persistence slice the importer needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*registration.User, error)
	CreateUser(ctx context.Context, u registration.User) (registration.User, error)
	GetRegistrationByEmail(ctx context.Context, email string) (*registration.Registration, error)
	GetRegistrationByUserID(ctx context.Context, userID string) (*registration.Registration, error)
	CreateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, error)
	UpdateProfile(ctx context.Context, reg registration.Registration) error
	MarkPaymentSuccess(ctx context.Context, email string) (int64, error)
}

// Mailer sends one message synchronously; the error feeds row outcomes.
type Mailer interface {
	Send(msg mail.Message) error
}

// Importer runs the three CSV-driven admin operations.
type Importer struct {
	store       Store
	mailer      Mailer
	tokens      *auth.Tokens
	qr          *qr.Encoder
	qrTTL       time.Duration
	paymentLink string
	log         *zap.SugaredLogger
}

func NewImporter(store Store, mailer Mailer, tokens *auth.Tokens, enc *qr.Encoder, qrTTL time.Duration, paymentLink string, log *zap.SugaredLogger) *Importer {
	return &Importer{
		store:       store,
		mailer:      mailer,
		tokens:      tokens,
		qr:          enc,
		qrTTL:       qrTTL,
		paymentLink: paymentLink,
		log:         log,
	}
}

// ConfirmPayments marks each row's registration as paid and mails a fresh
// QR invite. Rows whose registration is already paid are re-confirmed and
// reissued; that matches the update-by-email semantics this flow always had.
func (im *Importer) ConfirmPayments(ctx context.Context, r io.Reader) (Summary, error) {
	return im.run(ctx, "confirm_payments", r, im.confirmRow)
}

// SendReminders mails the payment link to each row's pending registration.
func (im *Importer) SendReminders(ctx context.Context, r io.Reader) (Summary, error) {
	return im.run(ctx, "send_reminders", r, im.remindRow)
}

// ImportRows upserts a user and registration per row and mails a QR invite.
func (im *Importer) ImportRows(ctx context.Context, r io.Reader) (Summary, error) {
	return im.run(ctx, "import", r, im.importRow)
}

func (im *Importer) run(ctx context.Context, op string, r io.Reader, unit func(ctx context.Context, row Row) (string, error)) (Summary, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, row := range rows {
		email := row.Get("email")
		if email == "" {
			im.log.Warnw("skipping row with missing email", "operation", op)
			sum.add(RowResult{Status: OutcomeSkipped, Reason: "missing email"})
			metrics.BulkRows.WithLabelValues(op, string(OutcomeSkipped)).Inc()
			continue
		}
		name, err := unit(ctx, row)
		if err != nil {
			im.log.Errorw("row failed", "operation", op, "email", email, "err", err)
			sum.add(RowResult{Email: email, Name: name, Status: OutcomeFailed, Reason: err.Error()})
			metrics.BulkRows.WithLabelValues(op, string(OutcomeFailed)).Inc()
			continue
		}
		sum.add(RowResult{Email: email, Name: name, Status: OutcomeProcessed})
		metrics.BulkRows.WithLabelValues(op, string(OutcomeProcessed)).Inc()
	}
	return sum, nil
}

func (im *Importer) confirmRow(ctx context.Context, row Row) (string, error) {
	email := row.Get("email")
	count, err := im.store.MarkPaymentSuccess(ctx, email)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", fmt.Errorf("no registration for %s", email)
	}
	reg, err := im.store.GetRegistrationByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if reg == nil {
		return "", fmt.Errorf("registration vanished for %s", email)
	}
	return reg.FullName, im.sendInvite(reg)
}

func (im *Importer) remindRow(ctx context.Context, row Row) (string, error) {
	email := row.Get("email")
	reg, err := im.store.GetRegistrationByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if reg == nil {
		return "", fmt.Errorf("no registration for %s", email)
	}
	if reg.PaymentStatus == registration.PaymentSuccess {
		// Nothing to remind about; the row still completed.
		im.log.Infow("payment already confirmed, reminder not sent", "email", email)
		return reg.FullName, nil
	}
	html, err := mail.ReminderHTML(mail.TemplateData{
		Name:        reg.FullName,
		School:      reg.School,
		City:        reg.City,
		Grade:       reg.Grade,
		PaymentLink: im.paymentLink,
	})
	if err != nil {
		return reg.FullName, err
	}
	return reg.FullName, im.mailer.Send(mail.Message{
		To:      reg.Email,
		Subject: "Reminder: Complete Your Registration Payment",
		HTML:    html,
	})
}

func (im *Importer) importRow(ctx context.Context, row Row) (string, error) {
	email := row.Get("email")
	name := row.Get("name")
	if name == "" {
		name = email
	}

	user, err := im.store.GetUserByEmail(ctx, email)
	if err != nil {
		return name, err
	}
	if user == nil {
		// Imported identities never log in; give them an unguessable
		// credential.
		hash, err := auth.HashPassword(uuid.NewString())
		if err != nil {
			return name, err
		}
		created, err := im.store.CreateUser(ctx, registration.User{
			FullName:     name,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return name, err
		}
		user = &created
	}

	profile := registration.Registration{
		UserID:        user.ID,
		FullName:      name,
		Email:         email,
		Phone:         row.Get("phone"),
		School:        row.Get("college"),
		City:          row.Get("city"),
		Grade:         row.Get("year"),
		Stream:        row.Get("stream"),
		Accommodation: Yes(row.Get("accomodation")) || Yes(row.Get("accommodation")),
	}

	reg, err := im.store.GetRegistrationByUserID(ctx, user.ID)
	if err != nil {
		return name, err
	}
	if reg == nil {
		created, err := im.store.CreateRegistration(ctx, profile)
		if err != nil {
			return name, err
		}
		reg = &created
	} else {
		profile.ID = reg.ID
		if err := im.store.UpdateProfile(ctx, profile); err != nil {
			return name, err
		}
	}

	if Yes(row.Get("paid")) && reg.PaymentStatus != registration.PaymentSuccess {
		if _, err := im.store.MarkPaymentSuccess(ctx, email); err != nil {
			return name, err
		}
		reg.PaymentStatus = registration.PaymentSuccess
	}

	reg.FullName = name
	return name, im.sendInvite(reg)
}

// sendInvite mints the long-lived QR token and mails it inline.
func (im *Importer) sendInvite(reg *registration.Registration) error {
	token, err := im.tokens.IssueQR(reg.UserID, reg.ID, reg.Email, im.qrTTL)
	if err != nil {
		return err
	}
	png, err := im.qr.PNG(token)
	if err != nil {
		return err
	}
	html, err := mail.ConfirmationHTML(mail.TemplateData{
		Name:           reg.FullName,
		School:         reg.School,
		City:           reg.City,
		Grade:          reg.Grade,
		RegistrationID: reg.ID,
	})
	if err != nil {
		return err
	}
	return im.mailer.Send(mail.Message{
		To:        reg.Email,
		Subject:   "Registration Payment Confirmation",
		HTML:      html,
		InlinePNG: png,
	})
}
