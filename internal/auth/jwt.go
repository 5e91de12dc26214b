package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. A session cookie must not pass admin auth and a QR payload
// must not open a session, so every token is stamped with its kind.
const (
	KindSession = "session"
	KindAdmin   = "admin"
	KindQR      = "qr"
)

// ErrInvalidToken covers expired, malformed and badly signed tokens alike;
// verification fails closed and callers only need the one answer.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload shared by all three token kinds.
type Claims struct {
	Kind           string `json:"kind"`
	UserID         string `json:"uid,omitempty"`
	RegistrationID string `json:"rid,omitempty"`
	Email          string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with a shared secret.
type Tokens struct {
	secret []byte
	issuer string
}

func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{secret: []byte(secret), issuer: issuer}
}

// IssueSession mints a user session token carrying the user id.
func (t *Tokens) IssueSession(userID string, ttl time.Duration) (string, error) {
	return t.sign(Claims{Kind: KindSession, UserID: userID}, ttl)
}

// IssueAdmin mints an admin bearer token.
func (t *Tokens) IssueAdmin(adminID, email string, ttl time.Duration) (string, error) {
	return t.sign(Claims{Kind: KindAdmin, UserID: adminID, Email: email}, ttl)
}

// IssueQR mints the long-lived token embedded in a QR code. There is no
// revocation list; expiry is the only temporal control.
func (t *Tokens) IssueQR(userID, registrationID, email string, ttl time.Duration) (string, error) {
	return t.sign(Claims{Kind: KindQR, UserID: userID, RegistrationID: registrationID, Email: email}, ttl)
}

func (t *Tokens) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates a token of the expected kind and returns its claims.
func (t *Tokens) Parse(tokenStr, kind string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return Claims{}, ErrInvalidToken
	}
	if claims.Kind != kind {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
