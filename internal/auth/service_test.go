// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/user"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeDirectory struct {
	byEmail map[string]*user.User
	nextID  int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byEmail: make(map[string]*user.User)}
}

func (d *fakeDirectory) GetOrCreateByEmail(_ context.Context, email string) (*user.User, error) {
	if existing, ok := d.byEmail[email]; ok {
		return existing, nil
	}
	d.nextID++
	account := &user.User{
		ID:    fmt.Sprintf("user-%d", d.nextID),
		Email: email,
		Role:  sec.RoleUser,
	}
	d.byEmail[email] = account
	return account, nil
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*user.User, error) {
	for _, account := range d.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type fakeSessions struct {
	byID map[string]*Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: make(map[string]*Session)}
}

func (s *fakeSessions) Create(_ context.Context, session *Session) error {
	clone := *session
	s.byID[session.ID] = &clone
	return nil
}

func (s *fakeSessions) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	for _, session := range s.byID {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			clone := *session
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (s *fakeSessions) Revoke(_ context.Context, sessionID string) error {
	if session, ok := s.byID[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (s *fakeSessions) RevokeAll(_ context.Context, userID string) error {
	for _, session := range s.byID {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (s *fakeSessions) DeleteExpired(_ context.Context) error {
	for id, session := range s.byID {
		if session.ExpiresAt.Before(time.Now()) {
			delete(s.byID, id)
		}
	}
	return nil
}

func (s *fakeSessions) active() int {
	count := 0
	for _, session := range s.byID {
		if !session.IsRevoked {
			count++
		}
	}
	return count
}

type fakeCodes struct {
	byEmail map[string]string
}

func newFakeCodes() *fakeCodes {
	return &fakeCodes{byEmail: make(map[string]string)}
}

func (c *fakeCodes) Set(_ context.Context, email, codeHash string, _ time.Duration) error {
	c.byEmail[email] = codeHash
	return nil
}

func (c *fakeCodes) Get(_ context.Context, email string) (string, error) {
	hash, ok := c.byEmail[email]
	if !ok {
		return "", apperr.NotFound("Confirmation code")
	}
	return hash, nil
}

func (c *fakeCodes) Delete(_ context.Context, email string) error {
	delete(c.byEmail, email)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, _ string, _ bool, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

// captureSender records dispatched confirmation codes for inspection.
type captureSender struct {
	recipient  string
	code       string
	dispatches int
}

func (s *captureSender) SendConfirmationCode(recipient, code string) {
	s.recipient = recipient
	s.code = code
	s.dispatches++
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type authFixture struct {
	service   *Service
	directory *fakeDirectory
	sessions  *fakeSessions
	codes     *fakeCodes
	sender    *captureSender
}

func newAuthFixture() *authFixture {
	fixture := &authFixture{
		directory: newFakeDirectory(),
		sessions:  newFakeSessions(),
		codes:     newFakeCodes(),
		sender:    &captureSender{},
	}
	fixture.service = NewService(fixture.directory, fixture.sessions, fixture.codes, fakeTokens{}, fixture.sender)
	return fixture
}

// signIn walks the happy path end to end and returns the resulting grant.
func (f *authFixture) signIn(t *testing.T, email string) *Grant {
	t.Helper()

	require.NoError(t, f.service.RequestCode(context.Background(), email))

	grant, err := f.service.ExchangeCode(context.Background(), email, f.sender.code, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	return grant
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRequestCode(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and dispatches a code", func(t *testing.T) {
		fixture := newAuthFixture()

		err := fixture.service.RequestCode(ctx, "ada@example.com")
		require.NoError(t, err)

		require.Len(t, fixture.directory.byEmail, 1)
		require.Equal(t, "ada@example.com", fixture.sender.recipient)
		require.NotEmpty(t, fixture.sender.code)

		// Only the hash is stored, never the plain code.
		storedHash := fixture.codes.byEmail["ada@example.com"]
		require.NotEqual(t, fixture.sender.code, storedHash)
		require.True(t, sec.VerifyTokenHash(fixture.sender.code, storedHash))
	})

	t.Run("is idempotent for existing accounts", func(t *testing.T) {
		fixture := newAuthFixture()

		require.NoError(t, fixture.service.RequestCode(ctx, "ada@example.com"))
		require.NoError(t, fixture.service.RequestCode(ctx, "ada@example.com"))

		require.Len(t, fixture.directory.byEmail, 1)
		require.Equal(t, 2, fixture.sender.dispatches)
	})

	t.Run("a new code invalidates the previous one", func(t *testing.T) {
		fixture := newAuthFixture()

		require.NoError(t, fixture.service.RequestCode(ctx, "ada@example.com"))
		firstCode := fixture.sender.code

		require.NoError(t, fixture.service.RequestCode(ctx, "ada@example.com"))
		require.NotEqual(t, firstCode, fixture.sender.code)

		_, err := fixture.service.ExchangeCode(ctx, "ada@example.com", firstCode, "", "")
		requireAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		fixture := newAuthFixture()

		err := fixture.service.RequestCode(ctx, "not-an-email")
		requireAppError(t, err, "VALIDATION_ERROR")
		require.Empty(t, fixture.directory.byEmail)
	})
}

func TestExchangeCode(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code yields a full grant", func(t *testing.T) {
		fixture := newAuthFixture()

		grant := fixture.signIn(t, "ada@example.com")

		require.Equal(t, "jwt-for-user-1", grant.AccessToken)
		require.NotEmpty(t, grant.RefreshToken)
		require.Equal(t, "ada@example.com", grant.User.Email)
		require.Equal(t, 1, fixture.sessions.active())

		// The persisted session holds the hash, not the token.
		session, err := fixture.sessions.FindByTokenHash(ctx, sec.HashToken(grant.RefreshToken))
		require.NoError(t, err)
		require.Equal(t, grant.User.ID, session.UserID)
		require.Equal(t, "test-agent", session.UserAgent)
	})

	t.Run("a code cannot be replayed", func(t *testing.T) {
		fixture := newAuthFixture()

		fixture.signIn(t, "ada@example.com")

		_, err := fixture.service.ExchangeCode(ctx, "ada@example.com", fixture.sender.code, "", "")
		requireAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("wrong code and unknown email are indistinguishable", func(t *testing.T) {
		fixture := newAuthFixture()

		require.NoError(t, fixture.service.RequestCode(ctx, "ada@example.com"))

		_, wrongCodeErr := fixture.service.ExchangeCode(ctx, "ada@example.com", "bogus", "", "")
		_, unknownEmailErr := fixture.service.ExchangeCode(ctx, "nobody@example.com", "bogus", "", "")

		requireAppError(t, wrongCodeErr, "UNAUTHORIZED")
		requireAppError(t, unknownEmailErr, "UNAUTHORIZED")
		require.Equal(t, wrongCodeErr.Error(), unknownEmailErr.Error())
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation revokes the old session", func(t *testing.T) {
		fixture := newAuthFixture()
		grant := fixture.signIn(t, "ada@example.com")

		rotated, err := fixture.service.Refresh(ctx, grant.RefreshToken, "test-agent", "127.0.0.1")
		require.NoError(t, err)
		require.NotEqual(t, grant.RefreshToken, rotated.RefreshToken)
		require.Equal(t, grant.User.ID, rotated.User.ID)
		require.Equal(t, 1, fixture.sessions.active())

		// The spent token is dead.
		_, err = fixture.service.Refresh(ctx, grant.RefreshToken, "", "")
		requireAppError(t, err, "UNAUTHORIZED")

		// The rotated token works.
		_, err = fixture.service.Refresh(ctx, rotated.RefreshToken, "", "")
		require.NoError(t, err)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		fixture := newAuthFixture()

		_, err := fixture.service.Refresh(ctx, "never-issued", "", "")
		requireAppError(t, err, "UNAUTHORIZED")
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the session", func(t *testing.T) {
		fixture := newAuthFixture()
		grant := fixture.signIn(t, "ada@example.com")

		require.NoError(t, fixture.service.Logout(ctx, grant.RefreshToken))
		require.Equal(t, 0, fixture.sessions.active())

		_, err := fixture.service.Refresh(ctx, grant.RefreshToken, "", "")
		requireAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("is idempotent", func(t *testing.T) {
		fixture := newAuthFixture()
		grant := fixture.signIn(t, "ada@example.com")

		require.NoError(t, fixture.service.Logout(ctx, grant.RefreshToken))
		require.NoError(t, fixture.service.Logout(ctx, grant.RefreshToken))
		require.NoError(t, fixture.service.Logout(ctx, "never-issued"))
	})

	t.Run("logout all revokes every session of the user", func(t *testing.T) {
		fixture := newAuthFixture()

		first := fixture.signIn(t, "ada@example.com")
		second := fixture.signIn(t, "ada@example.com")
		require.Equal(t, 2, fixture.sessions.active())

		require.NoError(t, fixture.service.LogoutAll(ctx, first.User.ID))
		require.Equal(t, 0, fixture.sessions.active())

		_, err := fixture.service.Refresh(ctx, second.RefreshToken, "", "")
		requireAppError(t, err, "UNAUTHORIZED")
	})
}

// requireAppError asserts that err is an AppError with the given code.
func requireAppError(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	require.Equal(t, code, appError.Code)
}
