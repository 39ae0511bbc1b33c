// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package user implements account self-service and user administration.
//
// # Architecture
//
// Two distinct authorization surfaces share this service: /users/me is open
// to any authenticated principal and always operates on the caller's own
// record (taken from verified claims, never from a request field), while
// the /users collection is admin-only through [access.CanAdministerUsers].
package user

import (
	"context"
	"fmt"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/platform/validate"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 150
	maxBioLength      = 2000
)

// Service implements user account use cases.
type Service struct {
	userRepository Repository
}

// NewService constructs a new user [Service].
func NewService(userRepo Repository) *Service {
	return &Service{userRepository: userRepo}
}

// # Self-Service

// Me returns the caller's own account.
func (service *Service) Me(ctx context.Context, principal *access.Principal) (*User, error) {
	if err := access.Require(principal, principal.IsAuthenticated()); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, userNotFound(err)
	}

	return user, nil
}

// ProfileInput holds the self-service profile fields. Nil fields are unchanged.
type ProfileInput struct {
	Username *string
	Bio      *string
}

// UpdateMe applies a partial update to the caller's own profile.
//
// # Business Rules
//   - The target record is always the caller's; the principal's verified
//     identity is the only addressing mechanism.
//   - Role and superuser status are never touchable through this path.
//   - Usernames are unique; a taken username conflicts.
func (service *Service) UpdateMe(ctx context.Context, principal *access.Principal, input ProfileInput) (*User, error) {
	if err := access.Require(principal, principal.IsAuthenticated()); err != nil {
		return nil, err
	}

	return service.applyProfile(ctx, principal.UserID, input, nil)
}

// # Administration

// List returns a page of all users. Admin only.
func (service *Service) List(ctx context.Context, principal *access.Principal, limit, offset int) ([]*User, int, error) {
	if err := access.Require(principal, access.CanAdministerUsers(principal)); err != nil {
		return nil, 0, err
	}

	return service.userRepository.List(ctx, limit, offset)
}

// GetByUsername returns a user addressed by their public handle. Admin only.
func (service *Service) GetByUsername(ctx context.Context, principal *access.Principal, username string) (*User, error) {
	if err := access.Require(principal, access.CanAdministerUsers(principal)); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, userNotFound(err)
	}

	return user, nil
}

// AdminInput extends [ProfileInput] with the role change only admins may make.
type AdminInput struct {
	Username *string
	Bio      *string
	Role     *string
}

// UpdateByUsername applies a partial update to any user, including their
// role. Admin only.
func (service *Service) UpdateByUsername(ctx context.Context, principal *access.Principal, username string, input AdminInput) (*User, error) {
	if err := access.Require(principal, access.CanAdministerUsers(principal)); err != nil {
		return nil, err
	}

	target, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, userNotFound(err)
	}

	var role *sec.Role
	if input.Role != nil {
		candidate := sec.Role(*input.Role)
		if !candidate.IsValid() {
			return nil, validate.RequiredError("role", "Must be one of: user, moderator, admin")
		}
		role = &candidate
	}

	return service.applyProfile(ctx, target.ID, ProfileInput{Username: input.Username, Bio: input.Bio}, role)
}

// DeleteByUsername removes a user account and, by cascade, their reviews,
// comments, and sessions. Admin only.
func (service *Service) DeleteByUsername(ctx context.Context, principal *access.Principal, username string) error {
	if err := access.Require(principal, access.CanAdministerUsers(principal)); err != nil {
		return err
	}

	target, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return userNotFound(err)
	}

	if err := service.userRepository.Delete(ctx, target.ID); err != nil {
		return userNotFound(err)
	}

	return nil
}

// # Helpers

// applyProfile loads, patches, validates, and persists a user record.
// A nil role leaves the role untouched.
func (service *Service) applyProfile(ctx context.Context, userID string, input ProfileInput, role *sec.Role) (*User, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}

	if input.Username != nil {
		user.Username = input.Username
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if role != nil {
		user.Role = *role
	}

	validator := &validate.Validator{}
	if user.Username != nil {
		validator.
			MinLen("username", *user.Username, minUsernameLength).
			MaxLen("username", *user.Username, maxUsernameLength).
			Slug("username", *user.Username)
	}
	if user.Bio != nil {
		validator.MaxLen("bio", *user.Bio, maxBioLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.userRepository.Update(ctx, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Username is already taken")
		}
		return nil, fmt.Errorf("user_service_update_failed: %w", err)
	}

	return user, nil
}

// userNotFound maps a storage not-found to a client-facing User error.
func userNotFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound("User")
	}
	return err
}
