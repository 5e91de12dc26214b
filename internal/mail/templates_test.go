package mail

import (
	"strings"
	"testing"
)

func TestConfirmationHTML(t *testing.T) {
	html, err := ConfirmationHTML(TemplateData{Name: "Alice", RegistrationID: "reg-1", School: "State High"})
	if err != nil {
		t.Fatalf("ConfirmationHTML: %v", err)
	}
	for _, want := range []string{"Alice", "reg-1", "State High", "cid:qrcode.png"} {
		if !strings.Contains(html, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestReminderHTMLPaymentLink(t *testing.T) {
	withLink, err := ReminderHTML(TemplateData{Name: "Bob", PaymentLink: "https://pay.example/now"})
	if err != nil {
		t.Fatalf("ReminderHTML: %v", err)
	}
	if !strings.Contains(withLink, "https://pay.example/now") {
		t.Fatal("payment link not rendered")
	}

	withoutLink, err := ReminderHTML(TemplateData{Name: "Bob"})
	if err != nil {
		t.Fatalf("ReminderHTML: %v", err)
	}
	if strings.Contains(withoutLink, "Complete Payment Now") {
		t.Fatal("payment button rendered without a link")
	}
}

func TestReceivedHTML(t *testing.T) {
	html, err := ReceivedHTML(TemplateData{Name: "Cara", RegistrationID: "reg-9"})
	if err != nil {
		t.Fatalf("ReceivedHTML: %v", err)
	}
	if !strings.Contains(html, "reg-9") || !strings.Contains(html, "awaiting payment") {
		t.Fatal("acknowledgement body incomplete")
	}
}

func TestTemplatesEscapeInput(t *testing.T) {
	html, err := ConfirmationHTML(TemplateData{Name: "<script>alert(1)</script>"})
	if err != nil {
		t.Fatalf("ConfirmationHTML: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("user input not escaped")
	}
}
