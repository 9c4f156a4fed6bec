// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

/*
Package identity implements the account and session lifecycle core.

It owns the registration → activation → login → refresh → logout cycle:
issuing, validating, rotating, and revoking the paired access/refresh
credentials and the persisted per-account session record that backs the
refresh flow.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to
account identity.
*/
package identity

import "time"

// # Domain Entities

// Account represents a registered account.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Activated    bool      `json:"activated"`
	// ActivationToken proves control of the registered email address.
	// It stays on the row after activation; re-activating is a no-op.
	ActivationToken string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicAccount is the safe-to-expose projection of an [Account].
//
// It is the exact payload signed into tokens and returned to clients.
// Never extend it with PasswordHash or ActivationToken.
type PublicAccount struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Activated bool   `json:"activated"`
}

// NewPublicAccount maps an [Account] to its [PublicAccount] projection.
//
// The mapping is explicit on purpose: the output shape is fixed, not a
// runtime trim of whatever fields the storage row happens to carry.
func NewPublicAccount(account *Account) PublicAccount {
	return PublicAccount{
		ID:        account.ID,
		Email:     account.Email,
		Activated: account.Activated,
	}
}

// Session represents the persisted binding of an account to its one
// currently valid refresh token.
type Session struct {
	AccountID string `json:"account_id"`
	// TokenHash is the SHA-256 digest of the refresh token. The raw token
	// only ever lives in the client's cookie.
	TokenHash string `json:"-"`
}

// # Field Identifiers

// Field names for validation and JSON payloads in the identity domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldToken        = "token"
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldAccount      = "account"
	FieldMessage      = "message"
)
