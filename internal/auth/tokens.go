// Package auth implements the credential primitives: bcrypt password hashing
// and two independent JWT signing domains, one for users and one for admins.
// The domains share no key material, so a token from one can never verify
// under the other.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// UserClaims are the identity claims carried by a user-domain token.
type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"user_full_name"`
	jwt.RegisteredClaims
}

// AdminClaims are the identity claims carried by an admin-domain token.
type AdminClaims struct {
	AdminID       int64  `json:"admin_id"`
	AdminUsername string `json:"admin_username"`
	AdminName     string `json:"admin_name"`
	jwt.RegisteredClaims
}

// GenerateUserToken signs claims under the user-domain secret with the given
// lifetime.
func GenerateUserToken(secret string, claims UserClaims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = registered(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAdminToken signs claims under the admin-domain secret with the given
// lifetime.
func GenerateAdminToken(secret string, claims AdminClaims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = registered(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUserToken verifies a bearer token against the user-domain secret and
// returns its claims. Expired, malformed, or wrong-domain tokens all fail.
func ParseUserToken(secret, tokenString string) (UserClaims, error) {
	var claims UserClaims
	if err := parse(secret, tokenString, &claims); err != nil {
		return UserClaims{}, err
	}
	return claims, nil
}

// ParseAdminToken verifies a bearer token against the admin-domain secret and
// returns its claims.
func ParseAdminToken(secret, tokenString string) (AdminClaims, error) {
	var claims AdminClaims
	if err := parse(secret, tokenString, &claims); err != nil {
		return AdminClaims{}, err
	}
	return claims, nil
}

func parse(secret, tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
