package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed bearer tokens for API clients.
// Tokens are HMAC-signed and carry the user id as subject.
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewTokenService creates a token service. A zero expiry defaults to 24h.
func NewTokenService(secret string, expiry time.Duration, issuer string) *TokenService {
	if expiry == 0 {
		expiry = 24 * time.Hour
	}

	return &TokenService{secret: []byte(secret), expiry: expiry, issuer: issuer}
}

// Issue creates a signed token for the given user.
func (t *TokenService) Issue(userID uint64, username string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		Issuer:    t.issuer,
		ID:        username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses a bearer token and returns the user id it was issued for.
func (t *TokenService) Verify(tokenString string) (uint64, error) {
	claims := new(jwt.RegisteredClaims)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
