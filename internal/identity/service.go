// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package identity

import (
	"context"
	"fmt"

	"github.com/signet-id/signet/internal/platform/apperr"
	"github.com/signet-id/signet/internal/platform/constants"
	"github.com/signet-id/signet/internal/platform/sec"
	"github.com/signet-id/signet/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting and checking the credential pair.
type TokenIssuer interface {
	// IssuePair signs the identity projection into an access/refresh pair.
	IssuePair(accountID, email string, activated bool) (*sec.TokenPair, error)

	// VerifyRefresh checks a refresh token's signature and expiry.
	// Access tokens must never pass this check.
	VerifyRefresh(tokenString string) (*sec.IdentityClaims, error)
}

// PasswordHasher defines the contract for one-way password hashing.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the plaintext password.
	Hash(plainTextPassword string) (string, error)

	// Verify reports whether plaintext matches the stored hash.
	// A mismatch is false, never an error.
	Verify(plainTextPassword, existingHash string) bool
}

// ActivationMailer defines the contract for the outbound mail collaborator.
type ActivationMailer interface {
	// SendActivationMail delivers the activation link to the address.
	SendActivationMail(context context.Context, toAddress, activationLink string) error
}

// Grant represents a successfully established session: the credential pair
// plus the safe-to-expose account projection.
type Grant struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	Account      PublicAccount `json:"account"`
}

// Service orchestrates the account/session lifecycle.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or the refresh double-check must be reviewed carefully.
type Service struct {
	accounts AccountRepository
	sessions SessionStore
	tokens   TokenIssuer
	hasher   PasswordHasher
	mailer   ActivationMailer

	// linkBase is the public base URL used to build activation links.
	linkBase string
}

// NewService constructs a new [Service] with all collaborators injected.
//
// Nothing here is a process-wide singleton: each component carries only its
// own configuration and is wired once at startup.
func NewService(
	accounts AccountRepository,
	sessions SessionStore,
	tokens TokenIssuer,
	hasher PasswordHasher,
	mailer ActivationMailer,
	linkBase string,
) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		mailer:   mailer,
		linkBase: linkBase,
	}
}

// # Registration Flow

/*
Register creates a new account and opens its first session.

Description: Rejects duplicate emails, hashes the password, persists the
account with a fresh activation token, mails the activation link, and
issues the initial credential pair.

Parameters:
  - context: context.Context
  - email: string (already syntax-validated at the boundary)
  - password: string (already length-validated at the boundary)

Returns:
  - *Grant: Credential pair + account projection
  - error: ValidationError (duplicate), MailFailure, or storage errors
*/
func (service *Service) Register(context context.Context, email, password string) (*Grant, error) {

	// Verify email uniqueness. Return a client-safe validation error.
	if _, err := service.accounts.FindByEmail(context, email); err == nil {
		return nil, apperr.ValidationError("An account with this email already exists")
	}

	// Prevent storing plain-text passwords.
	passwordHash, err := service.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// The activation token proves control of the mailbox. It is random and
	// opaque; possession of the link is the whole proof.
	activationToken, err := sec.GenerateSecureToken(ActivationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("identity_service_activation_token_failed: %w", err)
	}

	// Construct the new account. Time-sortable ID to keep the PG index tidy.
	account := &Account{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    passwordHash,
		Activated:       false,
		ActivationToken: activationToken,
	}

	if err := service.accounts.Create(context, account); err != nil {
		return nil, err
	}

	// The account is durably created at this point. A mail failure is
	// surfaced as its own error branch; it never rolls back the account.
	activationLink := service.linkBase + constants.ActivationRoutePrefix + activationToken
	if err := service.mailer.SendActivationMail(context, email, activationLink); err != nil {
		return nil, apperr.MailFailure(err)
	}

	return service.openSession(context, account)
}

/*
Activate flips the account's activated flag using the mailed token.

Description: Looks the account up by its activation token. The token is not
consumed: re-activating with the same token succeeds silently, flipping an
already-true flag.

Parameters:
  - context: context.Context
  - activationToken: string

Returns:
  - error: apperr.NotFound for an unknown token, or storage errors
*/
func (service *Service) Activate(context context.Context, activationToken string) error {
	account, err := service.accounts.FindByActivationToken(context, activationToken)
	if err != nil {
		return err
	}

	if err := service.accounts.MarkActivated(context, account.ID); err != nil {
		return fmt.Errorf("identity_service_activate_failed: %w", err)
	}

	return nil
}

// # Authentication Flow

/*
Login validates credentials and opens a fresh session.

Description: Login is permitted before activation — the activated flag is
carried in the projection but gates nothing at this layer. A successful
login overwrites any existing session record, revoking the prior refresh
token.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Grant: Credential pair + account projection
  - error: apperr.NotFound (unknown email), apperr.BadCredentials, or storage errors
*/
func (service *Service) Login(context context.Context, email, password string) (*Grant, error) {
	account, err := service.accounts.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	// Constant-time comparison inside bcrypt prevents timing attacks.
	if !service.hasher.Verify(password, account.PasswordHash) {
		return nil, apperr.BadCredentials("Incorrect password")
	}

	return service.openSession(context, account)
}

/*
Logout removes the session record for the given refresh token.

Description: Idempotent — an unknown or already-removed token is not an
error; the result is simply nil.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: The removed record, or nil if none existed
  - error: Storage transport failures only
*/
func (service *Service) Logout(context context.Context, refreshToken string) (*Session, error) {
	return service.sessions.Remove(context, refreshToken)
}

// # Session Rotation

/*
Refresh exchanges a live refresh token for a brand-new credential pair.

Description: The token must pass TWO checks — cryptographic verification
AND store membership. The second check is what makes refresh tokens
revocable despite being self-contained signed artifacts: logout deletes the
record, and any later login/refresh overwrites it, so a superseded token
verifies fine but finds no record and is rejected. The account is re-fetched
by the claim's ID so the new pair carries fresh fields, not stale claims.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Grant: Rotated credential pair + current account projection
  - error: apperr.Unauthorized on any invalid/revoked token, or storage errors
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Grant, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Missing refresh token")
	}

	claims, err := service.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	record, err := service.sessions.FindByToken(context, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("identity_service_session_lookup_failed: %w", err)
	}
	if record == nil {
		// Cryptographically valid but superseded or logged out.
		return nil, apperr.Unauthorized("Refresh token has been revoked")
	}

	// Never trust stale claim fields: re-read the account.
	account, err := service.accounts.FindByID(context, claims.AccountID)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	return service.openSession(context, account)
}

// # Administration

/*
ListAccounts returns the projection of every registered account.

Description: Administrative read; the HTTP boundary puts it behind the
access guard.

Parameters:
  - context: context.Context

Returns:
  - []PublicAccount: All accounts, secrets stripped
  - error: Storage failures
*/
func (service *Service) ListAccounts(context context.Context) ([]PublicAccount, error) {
	accounts, err := service.accounts.FindAll(context)
	if err != nil {
		return nil, err
	}

	projections := make([]PublicAccount, 0, len(accounts))
	for _, account := range accounts {
		projections = append(projections, NewPublicAccount(account))
	}

	return projections, nil
}

// openSession issues a credential pair for the account and upserts the
// session record. Shared tail of register, login, and refresh.
func (service *Service) openSession(context context.Context, account *Account) (*Grant, error) {
	projection := NewPublicAccount(account)

	pair, err := service.tokens.IssuePair(projection.ID, projection.Email, projection.Activated)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_issue_failed: %w", err)
	}

	// Last-write-wins on concurrent logins for the same account: the store
	// keeps exactly one record, and the newest pair owns it.
	if err := service.sessions.Save(context, account.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("identity_service_session_save_failed: %w", err)
	}

	return &Grant{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Account:      projection,
	}, nil
}
