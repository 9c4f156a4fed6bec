// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package identity

import "context"

// # Account Data Access

// AccountRepository defines the data access contract for account records.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		FindByActivationToken returns the account holding the given activation token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByActivationToken(context context.Context, token string) (*Account, error)

	/*
		Create persists a brand-new account record.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Duplicate-email violations or persistence failures
	*/
	Create(context context.Context, account *Account) error

	/*
		MarkActivated persists activated = true for the account.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkActivated(context context.Context, accountID string) error

	/*
		FindAll returns every account record.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Account: All persisted accounts
		  - error: Database retrieval failures
	*/
	FindAll(context context.Context) ([]*Account, error)
}

// # Session Data Access

// SessionStore defines the contract for the per-account refresh-token record.
//
// # Invariant
//
// At most one session record exists per account: Save overwrites, never
// appends. Overwriting is what revokes the previous refresh token — the
// superseded token still verifies cryptographically, but it no longer has
// a store record and therefore can never be exchanged again.
type SessionStore interface {

	/*
		Save upserts the session record for accountID, replacing any prior record.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - refreshToken: string (raw token; the store hashes it)

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, accountID, refreshToken string) error

	/*
		FindByToken returns the session record matching the raw refresh token.

		A missing record is not an error: the result is (nil, nil).

		Parameters:
		  - context: context.Context
		  - refreshToken: string

		Returns:
		  - *Session: Matching record, or nil if none exists
		  - error: Transport failures only
	*/
	FindByToken(context context.Context, refreshToken string) (*Session, error)

	/*
		Remove deletes the session record matching the raw refresh token.

		Idempotent: removing an absent token returns (nil, nil).

		Parameters:
		  - context: context.Context
		  - refreshToken: string

		Returns:
		  - *Session: The removed record, or nil if none existed
		  - error: Transport failures only
	*/
	Remove(context context.Context, refreshToken string) (*Session, error)
}
