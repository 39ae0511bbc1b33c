// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements the passwordless authentication flow.
//
// # Flow
//
// Signing in is a two-step dance with no passwords anywhere:
//
//  1. RequestCode: the user submits an email; we get-or-create the account,
//     generate a one-time confirmation code, store its hash in Redis with a
//     TTL, and mail the plain code.
//  2. ExchangeCode: the user submits email + code; on a hash match we
//     consume the code and issue a JWT access token plus a rotating opaque
//     refresh token.
//
// # Review Process
//
// This service is critical for security. Any changes to code handling,
// token issuance, or session rotation must be reviewed by the security team.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/constants"
	"github.com/taibuivan/critiq/internal/platform/mail"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/internal/user"
	"github.com/taibuivan/critiq/pkg/pointer"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// TokenProvider defines the contract for generating signed access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The public handle; empty when not yet chosen.
	//   - role: The role of the account.
	//   - superuser: Whether the account has the superuser bit.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, username, role string, superuser bool, timeToLive time.Duration) (string, error)
}

// errInvalidCredentials is the single error every exchange failure collapses
// into. Unknown email, expired code, and wrong code are indistinguishable to
// the caller, which prevents account enumeration.
var errInvalidCredentials = apperr.Unauthorized("Invalid email or confirmation code")

// Service implements the passwordless authentication use cases.
type Service struct {
	userDirectory     UserDirectory
	sessionRepository SessionRepository
	codeRepository    CodeRepository
	tokenProvider     TokenProvider
	mailer            mail.Sender
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	users UserDirectory,
	sessions SessionRepository,
	codes CodeRepository,
	tokens TokenProvider,
	mailer mail.Sender,
) *Service {
	return &Service{
		userDirectory:     users,
		sessionRepository: sessions,
		codeRepository:    codes,
		tokenProvider:     tokens,
		mailer:            mailer,
	}
}

// RequestCode starts (or restarts) a sign-in for the given email.
//
// # Business Rules
//   - Sign-in and sign-up are the same operation: unknown emails get a
//     fresh account with the default role (idempotent).
//   - A new code replaces any previous one and restarts the TTL.
//   - Mail dispatch is fire-and-forget; a delivery failure is logged by the
//     sender and never surfaces to the caller.
//   - The response carries no hint whether the account already existed.
func (service *Service) RequestCode(ctx context.Context, email string) error {
	// ── 1. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email)
	if err := validator.Err(); err != nil {
		return err
	}

	// ── 2. Account Resolution (Get-or-Create) ─────────────────────────────

	if _, err := service.userDirectory.GetOrCreateByEmail(ctx, email); err != nil {
		return fmt.Errorf("auth_service_resolve_account_failed: %w", err)
	}

	// ── 3. Code Generation & Storage ──────────────────────────────────────

	code, err := sec.GenerateSecureToken(constants.ConfirmationCodeBytes)
	if err != nil {
		return fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	// Only the hash is stored; the plain code exists solely in the email.
	if err := service.codeRepository.Set(ctx, email, sec.HashToken(code), constants.ConfirmationCodeTTL); err != nil {
		return fmt.Errorf("auth_service_code_store_failed: %w", err)
	}

	// ── 4. Dispatch ───────────────────────────────────────────────────────

	service.mailer.SendConfirmationCode(email, code)

	return nil
}

// ExchangeCode trades a valid email + confirmation code for a token grant.
//
// # Security
//
// Every failure mode returns the same generic Unauthorized error. The code
// is consumed on success and cannot be replayed.
func (service *Service) ExchangeCode(ctx context.Context, email, code, userAgent, ipAddress string) (*Grant, error) {
	// ── 1. Code Verification ──────────────────────────────────────────────

	storedHash, err := service.codeRepository.Get(ctx, email)
	if err != nil {
		return nil, errInvalidCredentials
	}

	// Constant-time comparison of the submitted code's hash.
	if !sec.VerifyTokenHash(code, storedHash) {
		return nil, errInvalidCredentials
	}

	// ── 2. Consume the Code ───────────────────────────────────────────────

	// One successful exchange per code; a replay hits the generic error.
	if err := service.codeRepository.Delete(ctx, email); err != nil {
		return nil, fmt.Errorf("auth_service_code_consume_failed: %w", err)
	}

	// ── 3. Account Resolution ─────────────────────────────────────────────

	account, err := service.userDirectory.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_account_lookup_failed: %w", err)
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	return service.issueGrant(ctx, account, userAgent, ipAddress)
}

// Refresh implements the refresh token rotation mechanism.
//
// It verifies the existing refresh token, revokes it to prevent reuse
// (preventing replay attacks), and issues a fresh pair of tokens.
func (service *Service) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*Grant, error) {
	// ── 1. Find Existing Session ──────────────────────────────────────────

	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		// The token is either expired, already revoked, or completely invalid.
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// ── 2. Rotation (Revoke Old Session) ──────────────────────────────────

	if err := service.sessionRepository.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// ── 3. Find User ──────────────────────────────────────────────────────

	account, err := service.userDirectory.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or removed")
	}

	// ── 4. Issue New Tokens ───────────────────────────────────────────────

	return service.issueGrant(ctx, account, userAgent, ipAddress)
}

// Logout permanently revokes the session behind the given refresh token.
// Logging out an already-dead token succeeds (idempotent operation).
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		// If the session is already gone or invalid, logout is a success.
		return nil
	}

	if err := service.sessionRepository.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// LogoutAll revokes every active session belonging to the principal,
// signing the user out on all devices at once.
func (service *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := service.sessionRepository.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("auth_service_logout_all_failed: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes session rows past their expiration date.
// It is invoked periodically by the janitor in cmd/api.
func (service *Service) PurgeExpiredSessions(ctx context.Context) error {
	if err := service.sessionRepository.DeleteExpired(ctx); err != nil {
		return fmt.Errorf("auth_service_purge_sessions_failed: %w", err)
	}
	return nil
}

// issueGrant mints an access token and a persisted refresh session.
func (service *Service) issueGrant(ctx context.Context, account *user.User, userAgent, ipAddress string) (*Grant, error) {
	// Access tokens are short-lived to reduce the impact window if leaked.
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		account.ID,
		pointer.Val(account.Username),
		string(account.Role),
		account.Superuser,
		constants.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(constants.RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    account.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &Grant{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  account,
	}, nil
}
