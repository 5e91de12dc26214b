package mail

import (
	"bytes"
	"html/template"
)

// TemplateData feeds every outbound template; unused fields render empty.
type TemplateData struct {
	Name           string
	Email          string
	School         string
	City           string
	Grade          string
	Event          string
	RegistrationID string
	PaymentLink    string
}

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
    .header { background-color: #f8f8f8; padding: 10px; text-align: center; border-bottom: 1px solid #ddd; }
    .content { padding: 20px; }
    .footer { text-align: center; font-size: 12px; color: #777; margin-top: 20px; }
    .qr-code { text-align: center; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>Registration Confirmation</h2>
    </div>
    <div class="content">
      <p>Dear {{.Name}},</p>
      <p>We are pleased to inform you that your payment for {{if .Event}}{{.Event}}{{else}}the event{{end}} has been successfully processed.</p>

      <h3>Registration Details:</h3>
      <p><strong>Name:</strong> {{.Name}}</p>
      {{if .School}}<p><strong>School:</strong> {{.School}}</p>{{end}}
      {{if .City}}<p><strong>City:</strong> {{.City}}</p>{{end}}
      {{if .Grade}}<p><strong>Grade:</strong> {{.Grade}}</p>{{end}}
      <p><strong>Registration ID:</strong> {{.RegistrationID}}</p>

      <div class="qr-code">
        <h3>Your Event QR Code</h3>
        <img src="cid:qrcode.png" alt="Event QR Code" style="width: 200px; height: 200px;"/>
        <p>Please present this QR code at the event venue for check-in.</p>
      </div>

      <p>Thank you for registering. We look forward to seeing you at the event!</p>
    </div>
    <div class="footer">
      <p>This is an automated message. Please do not reply directly to this email.</p>
    </div>
  </div>
</body>
</html>`))

	reminderTmpl = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
    .header { background-color: #f8f8f8; padding: 10px; text-align: center; border-bottom: 1px solid #ddd; }
    .content { padding: 20px; }
    .footer { text-align: center; font-size: 12px; color: #777; margin-top: 20px; }
    .button {
      display: inline-block; padding: 10px 20px; background-color: #4CAF50;
      color: white; text-decoration: none; border-radius: 5px; margin: 15px 0;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>Payment Reminder</h2>
    </div>
    <div class="content">
      <p>Dear {{.Name}},</p>
      <p>We noticed that your payment for the event registration is still pending.</p>

      <h3>Your Registration Details:</h3>
      <p><strong>Name:</strong> {{.Name}}</p>
      {{if .School}}<p><strong>School:</strong> {{.School}}</p>{{end}}
      {{if .City}}<p><strong>City:</strong> {{.City}}</p>{{end}}
      {{if .Grade}}<p><strong>Grade:</strong> {{.Grade}}</p>{{end}}

      <p>To complete your registration, please make the payment at your earliest convenience.</p>
      {{if .PaymentLink}}<a href="{{.PaymentLink}}" class="button">Complete Payment Now</a>{{end}}

      <p>If you've already made the payment, please ignore this reminder.</p>
    </div>
    <div class="footer">
      <p>This is an automated message. Please do not reply directly to this email.</p>
    </div>
  </div>
</body>
</html>`))

	receivedTmpl = template.Must(template.New("received").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
    .header { background-color: #f8f8f8; padding: 10px; text-align: center; border-bottom: 1px solid #ddd; }
    .content { padding: 20px; }
    .footer { text-align: center; font-size: 12px; color: #777; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>Registration Received</h2>
    </div>
    <div class="content">
      <p>Dear {{.Name}},</p>
      <p>Your registration has been received and is awaiting payment confirmation.</p>
      <p><strong>Registration ID:</strong> {{.RegistrationID}}</p>
      {{if .PaymentLink}}<p>You can complete the payment here: <a href="{{.PaymentLink}}">{{.PaymentLink}}</a></p>{{end}}
      <p>You will receive your event QR code by email once the payment is confirmed.</p>
    </div>
    <div class="footer">
      <p>This is an automated message. Please do not reply directly to this email.</p>
    </div>
  </div>
</body>
</html>`))
)

func render(t *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ConfirmationHTML is the payment-confirmed body with the embedded QR code.
func ConfirmationHTML(data TemplateData) (string, error) { return render(confirmationTmpl, data) }

// ReminderHTML nudges a pending registration toward the payment link.
func ReminderHTML(data TemplateData) (string, error) { return render(reminderTmpl, data) }

// ReceivedHTML acknowledges a new registration before payment.
func ReceivedHTML(data TemplateData) (string, error) { return render(receivedTmpl, data) }
