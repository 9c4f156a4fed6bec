// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signet-id/signet/internal/platform/sec"
)

/*
TestHashPassword verifies hashing and verification round-trips.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("hunter2!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash never equals the input
	assert.NotEqual(t, "hunter2!", hash)

	assert.True(t, sec.CheckPasswordHash("hunter2!", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestHashPassword_Salted verifies two hashes of the same input differ.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("hunter2!")
	require.NoError(t, err)

	second, err := sec.HashPassword("hunter2!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestGenerateSecureToken verifies token length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// Hex-encoded: two characters per byte
	assert.Len(t, first, 64)

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies the digest is stable and input-sensitive.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("some-refresh-token")

	// SHA-256 hex digest
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken("some-refresh-token"))
	assert.NotEqual(t, digest, sec.HashToken("another-token"))
}
