// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random, URL-safe hex string.
//
// byteLength is the entropy in bytes; the returned string is twice as long.
// Used for activation tokens and anywhere an unguessable opaque value is needed.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest of a token.
//
// Storage layers key sessions by this digest rather than the raw refresh
// token, so a leaked store dump cannot be replayed directly.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
