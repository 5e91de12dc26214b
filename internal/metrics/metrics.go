package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CheckIns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventreg", Name: "checkins_total", Help: "Recorded venue check-ins",
	})
	DuplicateScans = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventreg", Name: "duplicate_scans_total", Help: "QR scans for an already checked-in registration",
	})
	BulkRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventreg", Name: "bulk_rows_total", Help: "Bulk CSV rows by operation and outcome",
	}, []string{"operation", "outcome"})
	MailSends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventreg", Name: "mail_sends_total", Help: "Outbound mail attempts by status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(CheckIns, DuplicateScans, BulkRows, MailSends)
}

func Handler() http.Handler { return promhttp.Handler() }
