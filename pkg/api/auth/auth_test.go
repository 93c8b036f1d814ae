package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-for-unit-tests"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestVerifyTokenValid(t *testing.T) {
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatal(err)
	}

	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	userID, err := v.VerifyToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got error: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %q", userID)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	token := signToken(t, "some-other-secret", jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	if _, err := v.VerifyToken(token); err == nil {
		t.Error("expected error for token signed with wrong secret")
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	if _, err := v.VerifyToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyTokenMissingSubject(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	token := signToken(t, testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	if _, err := v.VerifyToken(token); err == nil {
		t.Error("expected error for token without subject")
	}
}

func TestVerifyTokenEmpty(t *testing.T) {
	v, _ := NewVerifier(testSecret)
	if _, err := v.VerifyToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(""); err == nil {
		t.Error("expected error for empty secret")
	}
}
