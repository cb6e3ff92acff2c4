// Copyright (c) 2026 Panelku. All rights reserved.
// Author: hello@panelku.id

/*
Package sec defines the caller-identity types shared across the HTTP layer
and the in-repo token verifier for the admin panel.

Token issuance is deliberately external to this codebase: Panelku trusts an
identity provider to hand admins their credentials, and only verifies the
presented bearer token. The [middleware.TokenVerifier] seam means a richer
provider (OIDC, JWT) can be plugged in without touching handlers.
*/
package sec

import (
	"crypto/subtle"
	"errors"
)

// # Roles

const (
	// RoleAdmin grants access to all content-management endpoints.
	RoleAdmin = "admin"
)

// AuthClaims describes the authenticated caller attached to a request.
type AuthClaims struct {
	// Subject identifies the caller for audit logging.
	Subject string
	// Role is the caller's access level (see [RoleAdmin]).
	Role string
}

// ErrInvalidToken is returned when a presented token does not verify.
var ErrInvalidToken = errors.New("sec: invalid token")

// # Static Token Verifier

// StaticVerifier verifies bearer tokens against a single pre-shared admin
// token from configuration.
//
// # Security
//
// Comparison is constant-time so the verifier does not leak token prefixes
// through response timing.
type StaticVerifier struct {
	token []byte
}

// NewStaticVerifier constructs a [StaticVerifier] for the given admin token.
func NewStaticVerifier(adminToken string) *StaticVerifier {
	return &StaticVerifier{token: []byte(adminToken)}
}

// VerifyToken checks the presented token and returns admin claims on match.
func (verifier *StaticVerifier) VerifyToken(tokenStr string) (*AuthClaims, error) {
	if len(verifier.token) == 0 {
		return nil, ErrInvalidToken
	}

	if subtle.ConstantTimeCompare(verifier.token, []byte(tokenStr)) != 1 {
		return nil, ErrInvalidToken
	}

	return &AuthClaims{Subject: "admin", Role: RoleAdmin}, nil
}
