// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

// Package sec provides the browser-binding cookie for the portal gateway.
//
// # Architecture
//
// The gateway keeps the backend bearer token server-side; the browser only
// ever holds a short signed cookie proving it is the client that performed
// the login. The cookie embeds the session generation, so a cookie minted
// before a logout can never re-enter a later session.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload embedded inside the gateway session cookie.
//
// Custom claims are abbreviated to keep the cookie small.
type Claims struct {
	jwt.RegisteredClaims

	// Role mirrors the session role so middleware can log it without
	// consulting the session store.
	Role string `json:"rol"`

	// Generation pins the cookie to one session lifetime. Logout bumps the
	// session generation, invalidating every previously minted cookie.
	Generation uint64 `json:"gen"`
}

// CookieService mints and verifies HS256-signed session cookies.
type CookieService struct {
	secret []byte
	issuer string
}

// NewCookieService creates a [CookieService] from a shared secret.
func NewCookieService(secret, issuer string) (*CookieService, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("sec: cookie secret must be at least 16 bytes")
	}
	return &CookieService{secret: []byte(secret), issuer: issuer}, nil
}

// Mint creates a signed cookie value for the given session identity.
func (service *CookieService) Mint(email, role string, generation uint64, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Role:       role,
		Generation: generation,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session cookie: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and validity of a cookie value.
func (service *CookieService) Verify(cookieValue string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(cookieValue, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid session cookie: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid session cookie claims")
	}

	return claims, nil
}
