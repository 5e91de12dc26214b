package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", "eventreg")

	qr, err := tokens.IssueQR("user-1", "reg-1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("IssueQR: %v", err)
	}
	claims, err := tokens.Parse(qr, KindQR)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.RegistrationID != "reg-1" || claims.Email != "a@x.com" {
		t.Fatalf("claims not preserved: %+v", claims)
	}
}

func TestParseRejectsWrongKind(t *testing.T) {
	tokens := NewTokens("secret", "eventreg")
	session, err := tokens.IssueSession("user-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	for _, kind := range []string{KindAdmin, KindQR} {
		if _, err := tokens.Parse(session, kind); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("session token accepted as %s: %v", kind, err)
		}
	}
}

func TestParseFailsClosed(t *testing.T) {
	tokens := NewTokens("secret", "eventreg")

	expired, err := tokens.IssueSession("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	foreign, err := NewTokens("other-secret", "eventreg").IssueSession("user-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	wrongIssuer, err := NewTokens("secret", "someone-else").IssueSession("user-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	for name, tok := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"wrong issuer": wrongIssuer,
		"malformed":    "not.a.jwt",
		"empty":        "",
	} {
		if _, err := tokens.Parse(tok, KindSession); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: got %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Fatal("valid password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("invalid password accepted")
	}
}
