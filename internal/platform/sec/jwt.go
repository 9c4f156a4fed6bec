// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims represents the payload embedded inside both token classes.
//
// # Why custom claims?
//
// By embedding the account's public projection (ID, Email, Activated) directly
// inside the JWT, the access guard can reconstruct the caller's identity
// WITHOUT querying the database on every request. Nothing secret (password
// hash, activation token) is ever part of the claims.
type IdentityClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	AccountID string `json:"aid"`
	Email     string `json:"eml"`
	Activated bool   `json:"act"`
}

// TokenPair bundles the two credentials issued per session.
type TokenPair struct {
	// AccessToken is the short-lived credential presented on every request.
	AccessToken string `json:"access_token"`
	// RefreshToken is the long-lived credential exchanged for a new pair.
	RefreshToken string `json:"refresh_token"`
}

// TokenService issues and verifies HS256-signed access/refresh token pairs.
//
// The two classes are signed with independent secrets, so a refresh token can
// never pass access verification and vice versa, even though both carry the
// same claim content.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService constructs a [TokenService] from the two signing secrets.
//
// It rejects empty or shared signing material outright: with a single secret
// the access and refresh verification paths would become interchangeable.
func NewTokenService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

/*
IssuePair signs the identity projection into a fresh access/refresh pair.

Description: Both tokens carry identical claim content; they differ only in
expiry and signing secret.

Parameters:
  - accountID: string
  - email: string
  - activated: bool

Returns:
  - *TokenPair: Signed credentials
  - error: Signing failures
*/
func (service *TokenService) IssuePair(accountID, email string, activated bool) (*TokenPair, error) {
	accessToken, err := service.sign(accountID, email, activated, service.accessSecret, service.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	refreshToken, err := service.sign(accountID, email, activated, service.refreshSecret, service.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess checks signature and expiry against the access secret.
func (service *TokenService) VerifyAccess(tokenString string) (*IdentityClaims, error) {
	return service.verify(tokenString, service.accessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh secret.
func (service *TokenService) VerifyRefresh(tokenString string) (*IdentityClaims, error) {
	return service.verify(tokenString, service.refreshSecret)
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// sign builds and signs a single token with the given secret and lifetime.
func (service *TokenService) sign(accountID, email string, activated bool, secret []byte, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		AccountID: accountID,
		Email:     email,
		Activated: activated,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// verify parses a token string and validates signature and expiry against
// exactly one secret. Expected failures (bad signature, expiry, malformed
// input) come back as errors for the caller to classify.
func (service *TokenService) verify(tokenString string, secret []byte) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
