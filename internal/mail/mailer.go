// Package mail is the best-effort outbound notification channel. When no
// SMTP transport is configured every send degrades to a logged warning, so
// the triggering operation still succeeds.
package mail

import (
	"io"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"eventreg/internal/metrics"
)

// Message is one outbound HTML email. InlinePNG, when set, is embedded as
// qrcode.png and referenced from the body via cid:qrcode.png.
type Message struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	HTML      string `json:"html"`
	InlinePNG []byte `json:"inlinePng,omitempty"`
}

// Dispatcher sends mail over SMTP.
type Dispatcher struct {
	host string
	port int
	user string
	pass string
	from string
	ssl  bool
	log  *zap.SugaredLogger
}

func NewDispatcher(host string, port int, user, pass, from string, ssl bool, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{host: host, port: port, user: user, pass: pass, from: from, ssl: ssl, log: log}
}

// Enabled reports whether a transport is configured.
func (d *Dispatcher) Enabled() bool { return d.host != "" }

// Send delivers one message. An unconfigured dispatcher warns and reports
// success; a configured one returns the SMTP error so bulk units can record
// the row as failed. Callers outside bulk flows log and move on.
func (d *Dispatcher) Send(msg Message) error {
	if !d.Enabled() {
		d.log.Warnw("smtp not configured, mail skipped", "to", msg.To)
		metrics.MailSends.WithLabelValues("skipped").Inc()
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	if len(msg.InlinePNG) > 0 {
		png := msg.InlinePNG
		m.Embed("qrcode.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		}))
	}

	dialer := gomail.NewDialer(d.host, d.port, d.user, d.pass)
	dialer.SSL = d.ssl
	if err := dialer.DialAndSend(m); err != nil {
		metrics.MailSends.WithLabelValues("error").Inc()
		d.log.Errorw("mail send failed", "to", msg.To, "err", err)
		return err
	}
	metrics.MailSends.WithLabelValues("ok").Inc()
	d.log.Infow("mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
