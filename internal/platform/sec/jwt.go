// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token
// signing, role predicates) from the domain logic. The server holds no
// session state: a token is valid iff its signature verifies and the current
// time is before its expiry.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 7 * 24 * time.Hour

var (
	// ErrMalformed is returned for tokens that are not structurally a JWT.
	ErrMalformed = errors.New("sec: malformed token")

	// ErrExpired is returned for correctly signed tokens past their expiry.
	ErrExpired = errors.New("sec: token expired")

	// ErrInvalidToken is returned for every other verification failure.
	ErrInvalidToken = errors.New("sec: invalid token")
)

// SessionClaims is the payload embedded inside a session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	Identity Identity `json:"identity"`
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: empty token secret")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    SessionTTL,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source. Tests use it to move past expiry.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// TTL returns the lifetime of issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a new session token for identity.
func (service *TokenService) Issue(identity Identity) (string, error) {
	issuedAt := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.ttl)),
		},
		Identity: identity,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a session token and returns the
// identity it carries.
func (service *TokenService) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithTimeFunc(service.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	identity := claims.Identity
	return &identity, nil
}
