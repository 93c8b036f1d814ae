// Package auth verifies Supabase-issued access tokens. The backend never
// mints tokens itself; it only checks the HS256 signature against the
// project's JWT secret and extracts the user ID from the sub claim.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates Supabase access tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not set")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// claims carries the subset of Supabase claims we care about.
type claims struct {
	jwt.RegisteredClaims
}

// VerifyToken checks the token signature and expiry and returns the user ID
// (the sub claim).
func (v *Verifier) VerifyToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		// Pin HMAC to block algorithm substitution.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	parsed, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims or signature")
	}
	if parsed.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return parsed.Subject, nil
}
