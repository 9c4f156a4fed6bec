// Copyright (c) 2026 Signet. All rights reserved.
// Author: dev@signet.id

package identity

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/signet-id/signet/internal/platform/apperr"
	"github.com/signet-id/signet/internal/platform/constants"
	"github.com/signet-id/signet/internal/platform/middleware"
	requestutil "github.com/signet-id/signet/internal/platform/request"
	"github.com/signet-id/signet/internal/platform/respond"
	"github.com/signet-id/signet/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the identity HTTP endpoints.
//
// # Scope
//
// Everything related to the account lifecycle entry points (registration,
// activation, login, session rotation, logout) plus the protected account
// listing. This layer is strictly responsible for transport concerns
// (status codes, cookies, JSON).
type Handler struct {
	identityService *Service

	// accessTTL feeds the expires_in hint returned alongside access tokens.
	accessTTL time.Duration

	// refreshTTL bounds the refresh cookie lifetime.
	refreshTTL time.Duration

	// clientURL, when set, is where a successful browser activation redirects.
	clientURL string
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, accessTTL, refreshTTL time.Duration, clientURL string) *Handler {
	return &Handler{
		identityService: service,
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		clientURL:       clientURL,
	}
}

// Routes returns a [chi.Router] configured with the identity routes.
//
// # Endpoints
//   - POST /register          : Creates a new account.
//   - GET  /activate/{token}  : Confirms email ownership via the mailed link.
//   - POST /login             : Authenticates and opens a session.
//   - GET  /refresh           : Rotates the credential pair from the cookie.
//   - POST /logout            : Revokes the current session.
//   - GET  /accounts          : Lists accounts (authenticated only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/activate/{token}", handler.activate)
	router.Get("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/accounts", handler.listAccounts)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new account.

POST /api/v1/register

Description: Validates input, persists the account, triggers the activation
mail, and opens the account's first session.

Request:
  - Body: registerRequest (Email, Password)

Response:
  - 201: Grant: Credential pair and account projection
  - 400: ErrInvalidJSON: Bad input, validation failure, or duplicate email
  - 502: MailFailure: Account created but activation mail undeliverable
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.identityService.Register(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, grant.RefreshToken)
	respond.Created(writer, handler.grantPayload(grant))
}

/*
Activate confirms email ownership via the mailed activation link.

GET /api/v1/activate/{token}

Description: Marks the account as activated. Because the link is opened in a
browser, a configured client URL turns the response into a redirect; without
one, a JSON confirmation is returned.

Response:
  - 302: Redirect to the client application (when configured)
  - 200: Success: Account activated
  - 404: ErrNotFound: Unknown activation token
*/
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.identityService.Activate(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if handler.clientURL != "" {
		http.Redirect(writer, request, handler.clientURL, http.StatusFound)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Account activated successfully",
	})
}

/*
Login authenticates an account and establishes a session.

POST /api/v1/login

Description: Verifies credentials, issues the credential pair, and injects
the refresh token cookie. Logging in revokes any previously issued refresh
token for the account.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Grant: Credential pair and account projection
  - 404: ErrNotFound: Unknown email
  - 401: BadCredentials: Incorrect password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.identityService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, grant.RefreshToken)
	respond.OK(writer, handler.grantPayload(grant))
}

/*
Logout terminates the current session.

POST /api/v1/logout

Description: Removes the session record (if one exists) and clears the
refresh cookie. Idempotent: logging out without a live session succeeds.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		if _, err := handler.identityService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

/*
Refresh exchanges the refresh token cookie for a new credential pair.

GET /api/v1/refresh

Description: Rotates the session: the presented token must verify
cryptographically AND still hold the account's session record. The rotated
refresh token replaces the cookie.

Response:
  - 200: Grant: New credential pair and current account projection
  - 401: ErrUnauthorized: Missing, invalid, expired, or revoked token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	grant, err := handler.identityService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, grant.RefreshToken)
	respond.OK(writer, handler.grantPayload(grant))
}

/*
ListAccounts returns every registered account projection.

GET /api/v1/accounts

Description: Administrative read, guarded by the access token middleware.

Response:
  - 200: []PublicAccount: All accounts, secrets stripped
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	accounts, err := handler.identityService.ListAccounts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, accounts)
}

// # Cookie Management

// setRefreshCookie injects the scoped refresh token cookie.
//
// SameSite=None because the browser client lives on a different origin than
// the API; Secure is mandatory for that combination.
func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, refreshToken string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    refreshToken,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(handler.refreshTTL / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearRefreshCookie expires the refresh token cookie on the client.
func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// grantPayload shapes the standard session response body.
//
// The refresh token rides in the body as well as the cookie so non-browser
// clients can store it themselves.
func (handler *Handler) grantPayload(grant *Grant) map[string]any {
	return map[string]any{
		FieldAccessToken:  grant.AccessToken,
		FieldRefreshToken: grant.RefreshToken,
		FieldTokenType:    "Bearer",
		FieldExpiresIn:    int64(handler.accessTTL / time.Second),
		FieldAccount:      grant.Account,
	}
}
