// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package identity_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signet-id/signet/internal/identity"
	"github.com/signet-id/signet/internal/platform/apperr"
	"github.com/signet-id/signet/internal/platform/sec"
)

// # Test Doubles

// fakeAccountRepository is an in-memory AccountRepository.
type fakeAccountRepository struct {
	accounts map[string]*identity.Account // keyed by ID
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: make(map[string]*identity.Account)}
}

func (r *fakeAccountRepository) FindByID(_ context.Context, id string) (*identity.Account, error) {
	if account, ok := r.accounts[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*identity.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeAccountRepository) FindByActivationToken(_ context.Context, token string) (*identity.Account, error) {
	for _, account := range r.accounts {
		if account.ActivationToken == token {
			copied := *account
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeAccountRepository) Create(_ context.Context, account *identity.Account) error {
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return apperr.ValidationError("Account already exists")
		}
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepository) MarkActivated(_ context.Context, accountID string) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	account.Activated = true
	return nil
}

func (r *fakeAccountRepository) FindAll(_ context.Context) ([]*identity.Account, error) {
	all := make([]*identity.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		copied := *account
		all = append(all, &copied)
	}
	return all, nil
}

// fakeSessionStore mirrors the one-record-per-account store semantics.
type fakeSessionStore struct {
	byTokenHash map[string]string // tokenHash -> accountID
	byAccount   map[string]string // accountID -> tokenHash
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		byTokenHash: make(map[string]string),
		byAccount:   make(map[string]string),
	}
}

func (s *fakeSessionStore) Save(_ context.Context, accountID, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)
	if previous, ok := s.byAccount[accountID]; ok {
		delete(s.byTokenHash, previous)
	}
	s.byTokenHash[tokenHash] = accountID
	s.byAccount[accountID] = tokenHash
	return nil
}

func (s *fakeSessionStore) FindByToken(_ context.Context, refreshToken string) (*identity.Session, error) {
	tokenHash := sec.HashToken(refreshToken)
	accountID, ok := s.byTokenHash[tokenHash]
	if !ok {
		return nil, nil
	}
	return &identity.Session{AccountID: accountID, TokenHash: tokenHash}, nil
}

func (s *fakeSessionStore) Remove(_ context.Context, refreshToken string) (*identity.Session, error) {
	tokenHash := sec.HashToken(refreshToken)
	accountID, ok := s.byTokenHash[tokenHash]
	if !ok {
		return nil, nil
	}
	delete(s.byTokenHash, tokenHash)
	delete(s.byAccount, accountID)
	return &identity.Session{AccountID: accountID, TokenHash: tokenHash}, nil
}

// fakeMailer records outbound activation mail and can simulate SMTP failure.
type fakeMailer struct {
	sentTo    []string
	sentLinks []string
	fail      bool
}

func (m *fakeMailer) SendActivationMail(_ context.Context, toAddress, activationLink string) error {
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sentTo = append(m.sentTo, toAddress)
	m.sentLinks = append(m.sentLinks, activationLink)
	return nil
}

// # Fixture

type serviceFixture struct {
	service  *identity.Service
	accounts *fakeAccountRepository
	sessions *fakeSessionStore
	mailer   *fakeMailer
	tokens   *sec.TokenService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	tokens, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		"signet.id",
		time.Minute,
		time.Hour,
	)
	require.NoError(t, err)

	accounts := newFakeAccountRepository()
	sessions := newFakeSessionStore()
	mailer := &fakeMailer{}

	service := identity.NewService(
		accounts,
		sessions,
		tokens,
		sec.BcryptHasher{},
		mailer,
		"https://api.signet.test",
	)

	return &serviceFixture{
		service:  service,
		accounts: accounts,
		sessions: sessions,
		mailer:   mailer,
		tokens:   tokens,
	}
}

// # Registration

/*
TestService_Register verifies the happy path: account persisted, activation
mail sent, credential pair issued, session record created.
*/
func TestService_Register(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	grant, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)
	require.NotNil(t, grant)

	// Account projection carries no secrets and starts deactivated
	assert.Equal(t, "dev@signet.id", grant.Account.Email)
	assert.False(t, grant.Account.Activated)
	assert.NotEmpty(t, grant.Account.ID)

	// Both tokens verify against their own class
	accessClaims, err := fx.tokens.VerifyAccess(grant.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, grant.Account.ID, accessClaims.AccountID)

	_, err = fx.tokens.VerifyRefresh(grant.RefreshToken)
	require.NoError(t, err)

	// The password is stored hashed, never in plain text
	stored, err := fx.accounts.FindByEmail(ctx, "dev@signet.id")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2!", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter2!", stored.PasswordHash))

	// Activation mail carries the tokenized link
	require.Len(t, fx.mailer.sentTo, 1)
	assert.Equal(t, "dev@signet.id", fx.mailer.sentTo[0])
	assert.True(t, strings.HasPrefix(fx.mailer.sentLinks[0], "https://api.signet.test/api/v1/activate/"))
	assert.True(t, strings.HasSuffix(fx.mailer.sentLinks[0], stored.ActivationToken))

	// Session record exists for the refresh token
	record, err := fx.sessions.FindByToken(ctx, grant.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, grant.Account.ID, record.AccountID)
}

/*
TestService_Register_Duplicate rejects a second registration for the same email.
*/
func TestService_Register_Duplicate(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, "dev@signet.id", "another-pass")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestService_Register_MailFailure surfaces the SMTP failure but keeps the
created account.
*/
func TestService_Register_MailFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.mailer.fail = true
	ctx := context.Background()

	_, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "MAIL_DELIVERY_FAILED", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)

	// The account survived the failed delivery
	stored, err := fx.accounts.FindByEmail(ctx, "dev@signet.id")
	require.NoError(t, err)
	assert.False(t, stored.Activated)
}

// # Activation

/*
TestService_Activate flips the flag, tolerates re-activation, and rejects
unknown tokens.
*/
func TestService_Activate(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	grant, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	stored, err := fx.accounts.FindByEmail(ctx, "dev@signet.id")
	require.NoError(t, err)
	require.False(t, stored.Activated)

	require.NoError(t, fx.service.Activate(ctx, stored.ActivationToken))

	activated, err := fx.accounts.FindByID(ctx, grant.Account.ID)
	require.NoError(t, err)
	assert.True(t, activated.Activated)

	// Re-activation with the same token is a silent no-op
	require.NoError(t, fx.service.Activate(ctx, stored.ActivationToken))

	// Unknown token
	err = fx.service.Activate(ctx, "no-such-token")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

// # Login

/*
TestService_Login verifies credential checks and session establishment.
*/
func TestService_Login(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	grant, err := fx.service.Login(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)
	assert.Equal(t, "dev@signet.id", grant.Account.Email)

	record, err := fx.sessions.FindByToken(ctx, grant.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, record)
}

/*
TestService_Login_BadPassword distinguishes a wrong password from a dead session.
*/
func TestService_Login_BadPassword(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	_, err = fx.service.Login(ctx, "dev@signet.id", "wrong-password")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "BAD_CREDENTIALS", ae.Code)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestService_Login_UnknownEmail surfaces the repository's not-found error.
*/
func TestService_Login_UnknownEmail(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.Login(context.Background(), "ghost@signet.id", "hunter2!")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestService_Login_RevokesPriorSession verifies that a new login supersedes
the previous refresh token.
*/
func TestService_Login_RevokesPriorSession(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	first, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	second, err := fx.service.Login(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	// The superseded token no longer has a record and cannot refresh
	_, err = fx.service.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// The fresh token still works
	_, err = fx.service.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

// # Refresh & Logout

/*
TestService_Refresh verifies rotation: a new pair is issued and the spent
token is rejected on replay.
*/
func TestService_Refresh(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	grant, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	rotated, err := fx.service.Refresh(ctx, grant.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, grant.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, grant.Account.ID, rotated.Account.ID)

	// Replay of the spent token is rejected
	_, err = fx.service.Refresh(ctx, grant.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestService_Refresh_CarriesFreshClaims verifies the rotated pair reflects
the current account state, not the claims frozen at issuance.
*/
func TestService_Refresh_CarriesFreshClaims(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	grant, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	stored, err := fx.accounts.FindByEmail(ctx, "dev@signet.id")
	require.NoError(t, err)
	require.NoError(t, fx.service.Activate(ctx, stored.ActivationToken))

	rotated, err := fx.service.Refresh(ctx, grant.RefreshToken)
	require.NoError(t, err)

	claims, err := fx.tokens.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.Activated)
	assert.True(t, rotated.Account.Activated)
}

/*
TestService_Refresh_Rejections covers the invalid-token branches.
*/
func TestService_Refresh_Rejections(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"empty_token", ""},
		{"garbage_token", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Refresh(ctx, tt.token)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		})
	}
}

/*
TestService_Logout verifies revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	grant, err := fx.service.Register(ctx, "dev@signet.id", "hunter2!")
	require.NoError(t, err)

	removed, err := fx.service.Logout(ctx, grant.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, grant.Account.ID, removed.AccountID)

	// Second logout with the same token is a no-op
	removed, err = fx.service.Logout(ctx, grant.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, removed)

	// A logged-out token can never refresh, even though it still verifies
	_, err = fx.service.Refresh(ctx, grant.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

// # Administration

/*
TestService_ListAccounts verifies the projection list.
*/
func TestService_ListAccounts(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, "first@signet.id", "hunter2!")
	require.NoError(t, err)
	_, err = fx.service.Register(ctx, "second@signet.id", "hunter2!")
	require.NoError(t, err)

	accounts, err := fx.service.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	emails := []string{accounts[0].Email, accounts[1].Email}
	assert.ElementsMatch(t, []string{"first@signet.id", "second@signet.id"}, emails)
}
