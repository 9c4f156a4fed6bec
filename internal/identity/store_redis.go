// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

// Redis implementation of [SessionStore].
//
// # Key Layout
//
// Two keys per live session, both expiring with the refresh token:
//
//	identity:session:token:<sha256(token)>  -> accountID
//	identity:session:account:<accountID>    -> sha256(token)
//
// The token key answers "who owns this refresh token" on refresh/logout;
// the account key lets Save find and delete the superseded token key so the
// one-record-per-account invariant holds.

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signet-id/signet/internal/platform/constants"
	"github.com/signet-id/signet/internal/platform/sec"
)

// RedisSessionStore implements the SessionStore interface on Redis.
type RedisSessionStore struct {
	client *redis.Client

	// ttl bounds both keys; it must equal the refresh token lifetime so a
	// token that expired cryptographically cannot linger in the store.
	ttl time.Duration
}

// NewSessionStore creates a new Redis implementation of the SessionStore.
func NewSessionStore(client *redis.Client, refreshTokenTTL time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: refreshTokenTTL}
}

/*
Save upserts the session record for the account.

Description: Looks up the account's current token hash (if any), then in a
single pipeline deletes the superseded token key and writes both keys for the
new token. Raw tokens are never stored, only their SHA-256 hash.

Parameters:
  - context: context.Context
  - accountID: string
  - refreshToken: string (raw token)

Returns:
  - error: Redis transport failures
*/
func (store *RedisSessionStore) Save(context context.Context, accountID, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)
	accountKey := constants.RedisPrefixSessionAccount + accountID

	previousHash, err := store.client.Get(context, accountKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_session_store_lookup_previous: %w", err)
	}

	pipeline := store.client.TxPipeline()
	if previousHash != "" && previousHash != tokenHash {
		pipeline.Del(context, constants.RedisPrefixSessionToken+previousHash)
	}
	pipeline.Set(context, constants.RedisPrefixSessionToken+tokenHash, accountID, store.ttl)
	pipeline.Set(context, accountKey, tokenHash, store.ttl)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_store_save: %w", err)
	}

	return nil
}

/*
FindByToken returns the session record matching the raw refresh token.

Parameters:
  - context: context.Context
  - refreshToken: string (raw token)

Returns:
  - *Session: The matching record, or nil when no record exists
  - error: Redis transport failures
*/
func (store *RedisSessionStore) FindByToken(context context.Context, refreshToken string) (*Session, error) {
	tokenHash := sec.HashToken(refreshToken)

	accountID, err := store.client.Get(context, constants.RedisPrefixSessionToken+tokenHash).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis_session_store_find: %w", err)
	}

	return &Session{AccountID: accountID, TokenHash: tokenHash}, nil
}

/*
Remove deletes the session record matching the raw refresh token.

Description: Idempotent — a token with no record returns (nil, nil). A
superseded token has no token key, so a logout with a stale token returns
early and cannot tear down the newer session.

Parameters:
  - context: context.Context
  - refreshToken: string (raw token)

Returns:
  - *Session: The removed record, or nil if none existed
  - error: Redis transport failures
*/
func (store *RedisSessionStore) Remove(context context.Context, refreshToken string) (*Session, error) {
	record, err := store.FindByToken(context, refreshToken)
	if err != nil || record == nil {
		return nil, err
	}

	accountKey := constants.RedisPrefixSessionAccount + record.AccountID

	pipeline := store.client.TxPipeline()
	pipeline.Del(context, constants.RedisPrefixSessionToken+record.TokenHash)
	pipeline.Del(context, accountKey)

	if _, err := pipeline.Exec(context); err != nil {
		return nil, fmt.Errorf("redis_session_store_remove: %w", err)
	}

	return record, nil
}
