// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt salts internally, so two calls with the same input produce
// different hashes. The work factor is tunable via the cost parameter;
// DefaultCost balances brute-force resistance against login latency.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// A mismatch is reported as false, never as an error.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// BcryptHasher adapts the package-level bcrypt helpers to the hasher
// interface the identity service consumes. Stateless; the zero value is
// ready to use.
type BcryptHasher struct{}

// Hash implements the hasher contract.
func (BcryptHasher) Hash(plainTextPassword string) (string, error) {
	return HashPassword(plainTextPassword)
}

// Verify implements the hasher contract.
func (BcryptHasher) Verify(plainTextPassword, existingHash string) bool {
	return CheckPasswordHash(plainTextPassword, existingHash)
}
