// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/critiq/internal/user"
)

// Session is a persisted refresh-token grant.
//
// # Security
//
// The opaque refresh token itself is never stored; only its SHA-256 hash
// lands in the database, so a leaked table cannot mint sessions.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// Grant is the result of a successful code exchange or session refresh.
type Grant struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *user.User
}
