// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critiq/internal/platform/middleware"
	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// This handler covers the full passwordless lifecycle: requesting a
// confirmation code, exchanging it for tokens, refreshing, and logging out.
// It contains NO business logic or database queries.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /email   : Sends a one-time confirmation code to an email.
//   - POST /token   : Exchanges email + code for an access/refresh pair.
//   - POST /refresh : Rotates a refresh token into a new pair.
//   - POST /logout  : Revokes the session behind a refresh token.
//   - POST /logout_all : Revokes every session of the caller (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/email", handler.requestCode)
	router.Post("/token", handler.exchangeCode)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.With(middleware.RequireAuth).Post("/logout_all", handler.logoutAll)

	return router
}

// emailRequest represents the JSON payload for requesting a code.
type emailRequest struct {
	Email string `json:"email"`
}

// requestCode handles POST /api/v1/auth/email requests.
//
// # Returns
//   - Writes HTTP 202 Accepted with a constant acknowledgement regardless
//     of whether the account existed (no enumeration).
//   - Writes HTTP 422 Unprocessable Entity if the email is malformed.
func (handler *Handler) requestCode(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input emailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" {
		respond.Error(writer, request, validate.RequiredError("email", "is required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	if err := handler.authService.RequestCode(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	// The acknowledgement is identical for new and existing accounts.
	respond.Accepted(writer, map[string]any{
		"message": "If the email address is valid, a confirmation code has been sent.",
	})
}

// tokenRequest represents the JSON payload for exchanging a code.
type tokenRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

// exchangeCode handles POST /api/v1/auth/token requests.
//
// # Returns
//   - Writes HTTP 200 OK with the token grant and user profile.
//   - Writes HTTP 401 Unauthorized for any invalid email/code combination,
//     without distinguishing the failure reason.
func (handler *Handler) exchangeCode(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" || input.ConfirmationCode == "" {
		respond.Error(writer, request, validate.RequiredError("email/confirmation_code", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	grant, err := handler.authService.ExchangeCode(
		request.Context(),
		input.Email,
		input.ConfirmationCode,
		request.UserAgent(),
		requestutil.ClientIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, grantResponse(grant))
}

// refreshRequest represents the JSON payload for token rotation and logout.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refresh handles POST /api/v1/auth/refresh requests.
//
// # Returns
//   - Writes HTTP 200 OK with a brand new token pair.
//   - Writes HTTP 401 Unauthorized if the refresh token is dead.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refresh_token", "is required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	grant, err := handler.authService.Refresh(
		request.Context(),
		input.RefreshToken,
		request.UserAgent(),
		requestutil.ClientIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, grantResponse(grant))
}

// logout handles POST /api/v1/auth/logout requests.
//
// # Returns
//   - Writes HTTP 204 No Content, including when the token was already
//     revoked or never existed (idempotent).
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refresh_token", "is required"))
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// logoutAll handles POST /api/v1/auth/logout_all requests.
//
// # Returns
//   - Writes HTTP 204 No Content after revoking every session of the caller.
//   - Writes HTTP 401 Unauthorized for anonymous requests.
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.LogoutAll(request.Context(), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// grantResponse shapes a [Grant] for the wire.
func grantResponse(grant *Grant) map[string]any {
	return map[string]any{
		"access_token":             grant.AccessToken,
		"refresh_token":            grant.RefreshToken,
		"refresh_token_expires_at": grant.RefreshTokenExpiresAt,
		"user":                     grant.User,
	}
}
