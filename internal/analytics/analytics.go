// Package analytics is the read-side aggregation over registrations and
// check-ins. Everything is recomputed per call; there is no cache.
package analytics

import (
	"context"
	"database/sql"
)

// LabeledCount is one group-by bucket.
type LabeledCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Totals summarizes registration payment state.
type Totals struct {
	Registrations     int `json:"registrations"`
	Paid              int `json:"paid"`
	Unpaid            int `json:"unpaid"`
	PaymentPercentage int `json:"paymentPercentage"`
}

// Distributions groups registrations along the admin dashboard axes.
type Distributions struct {
	PaymentStatus []LabeledCount `json:"paymentStatus"`
	Schools       []LabeledCount `json:"schools"`
	Cities        []LabeledCount `json:"cities"`
	Grades        []LabeledCount `json:"grades"`
}

// RecentRegistration is a trimmed row for the dashboard's latest-signups list.
type RecentRegistration struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	School        string `json:"school"`
	City          string `json:"city"`
	Grade         string `json:"grade"`
	PaymentStatus string `json:"paymentStatus"`
	CreatedAt     string `json:"createdAt"`
}

// Report is the full analytics response.
type Report struct {
	Totals        Totals               `json:"totals"`
	Distributions Distributions        `json:"distributions"`
	CheckInsByDay []LabeledCount       `json:"checkInsByDay"`
	Recent        []RecentRegistration `json:"recentRegistrations"`
}

// Service runs the aggregation queries.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Report(ctx context.Context) (Report, error) {
	var rep Report

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE payment_status = 'success')
		FROM registrations
	`)
	if err := row.Scan(&rep.Totals.Registrations, &rep.Totals.Paid); err != nil {
		return Report{}, err
	}
	rep.Totals.Unpaid = rep.Totals.Registrations - rep.Totals.Paid
	if rep.Totals.Registrations > 0 {
		rep.Totals.PaymentPercentage = (rep.Totals.Paid*100 + rep.Totals.Registrations/2) / rep.Totals.Registrations
	}

	var err error
	rep.Distributions.PaymentStatus, err = s.labeledCounts(ctx, `
		SELECT payment_status, COUNT(*) FROM registrations
		GROUP BY payment_status ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return Report{}, err
	}
	rep.Distributions.Schools, err = s.labeledCounts(ctx, `
		SELECT COALESCE(NULLIF(school, ''), 'Unknown'), COUNT(*) FROM registrations
		GROUP BY 1 ORDER BY COUNT(*) DESC LIMIT 10
	`)
	if err != nil {
		return Report{}, err
	}
	rep.Distributions.Cities, err = s.labeledCounts(ctx, `
		SELECT COALESCE(NULLIF(city, ''), 'Unknown'), COUNT(*) FROM registrations
		GROUP BY 1 ORDER BY COUNT(*) DESC LIMIT 10
	`)
	if err != nil {
		return Report{}, err
	}
	rep.Distributions.Grades, err = s.labeledCounts(ctx, `
		SELECT COALESCE(NULLIF(grade, ''), 'Unknown'), COUNT(*) FROM registrations
		GROUP BY 1 ORDER BY 1 ASC
	`)
	if err != nil {
		return Report{}, err
	}
	rep.CheckInsByDay, err = s.labeledCounts(ctx, `
		SELECT day::text, COUNT(*) FROM checkins GROUP BY day ORDER BY day ASC
	`)
	if err != nil {
		return Report{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, email, school, city, grade, payment_status,
			to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM registrations ORDER BY created_at DESC LIMIT 10
	`)
	if err != nil {
		return Report{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var rr RecentRegistration
		if err := rows.Scan(&rr.ID, &rr.Name, &rr.Email, &rr.School, &rr.City, &rr.Grade,
			&rr.PaymentStatus, &rr.CreatedAt); err != nil {
			return Report{}, err
		}
		rep.Recent = append(rep.Recent, rr)
	}
	return rep, rows.Err()
}

func (s *Service) labeledCounts(ctx context.Context, query string) ([]LabeledCount, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LabeledCount
	for rows.Next() {
		var lc LabeledCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}
