// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package identity

// # Identity Constraints

const (
	// ActivationTokenLength is the byte length of the random activation token.
	ActivationTokenLength = 32

	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 3

	// PasswordMaxLength is the maximum accepted password length.
	PasswordMaxLength = 30
)
