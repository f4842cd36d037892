// Package auth verifies session tokens and decides who may mutate the
// database.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// An Authorizer checks signed session tokens and applies the admin policy.
// The policy is a predicate over the verified email so that the check lives
// in one place instead of being re-derived per handler.
type Authorizer struct {
	secret  []byte
	isAdmin func(email string) bool
}

func New(secret, adminEmail string) *Authorizer {
	return &Authorizer{
		secret: []byte(secret),
		isAdmin: func(email string) bool {
			return email != "" && email == adminEmail
		},
	}
}

// VerifyToken validates a session JWT and returns the email it carries.
func (a *Authorizer) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("no email in token")
	}
	return email, nil
}

// IsAdmin reports whether the verified email may mutate the database.
func (a *Authorizer) IsAdmin(email string) bool {
	return a.isAdmin(email)
}
