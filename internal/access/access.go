// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access is the authorization decision layer for Critiq.

Every mutation path in the system funnels through the predicates defined
here. The package is deliberately tiny and pure: predicates take a
principal and (where relevant) an ownership reference, and return a plain
bool. They perform no I/O, raise no errors, and know nothing about HTTP
verbs — a deny is a value, which the calling service converts into a
Forbidden (authenticated) or Unauthorized (anonymous) outcome.

# Decision Matrix

  - Reads are always allowed; read paths never consult this package.
  - Review/Comment writes: author, or moderator capability and above.
  - Catalog writes (Category/Genre/Title): admin capability only.
  - User administration: admin capability only.
  - Self-service profile access: any authenticated principal, own record only.

Capabilities compose through the ordered role hierarchy in [sec.Role] plus
the superuser bit: a superuser has admin capability regardless of role, and
admin capability implies moderator capability.
*/
package access

import (
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

// Principal is the acting identity evaluated by the decision predicates.
//
// A nil *Principal represents an anonymous caller and is a valid input to
// every predicate.
type Principal struct {
	UserID    string
	Username  string
	Role      sec.Role
	Superuser bool
}

// IsAuthenticated reports whether the principal carries a verified identity.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.UserID != ""
}

// HasAdminCapability reports whether the principal may administer the
// catalog and user accounts. Superuser status grants it regardless of role.
func (p *Principal) HasAdminCapability() bool {
	if !p.IsAuthenticated() {
		return false
	}
	return p.Superuser || p.Role.AtLeast(sec.RoleAdmin)
}

// HasModeratorCapability reports whether the principal may mutate content
// they do not own. Admin capability implies it.
func (p *Principal) HasModeratorCapability() bool {
	if !p.IsAuthenticated() {
		return false
	}
	return p.Superuser || p.Role.AtLeast(sec.RoleModerator)
}

// # Content Rules (Reviews & Comments)

// CanCreateContent reports whether the principal may post a new review or
// comment. Authentication is the only requirement; ownership does not apply
// to creation.
func CanCreateContent(p *Principal) bool {
	return p.IsAuthenticated()
}

// CanMutateContent reports whether the principal may update or delete a
// review or comment authored by authorID.
func CanMutateContent(p *Principal, authorID string) bool {
	if !p.IsAuthenticated() {
		return false
	}
	if p.UserID == authorID {
		return true
	}
	return p.HasModeratorCapability()
}

// # Catalog Rules (Categories, Genres, Titles)

// CanManageCatalog reports whether the principal may create, update, or
// delete catalog entities.
func CanManageCatalog(p *Principal) bool {
	return p.HasAdminCapability()
}

// # Account Rules

// CanAdministerUsers reports whether the principal may list, inspect, or
// alter other users' accounts (including role changes).
func CanAdministerUsers(p *Principal) bool {
	return p.HasAdminCapability()
}

// IsSelf reports whether the principal is acting on their own record.
//
// Self-service access is evaluated BEFORE the admin-only rule by the user
// service: reading or updating one's own profile never requires admin
// rights, and the target is always taken from the verified principal —
// never from a spoofable request field.
func IsSelf(p *Principal, userID string) bool {
	return p.IsAuthenticated() && p.UserID == userID
}

// # Deny Conversion

// Require converts a predicate result into a service-layer error.
//
// It returns nil when allowed; otherwise Unauthorized for anonymous callers
// and Forbidden for authenticated-but-unauthorized ones. Centralizing the
// conversion keeps the distinction consistent across every engine.
func Require(p *Principal, allowed bool) error {
	if allowed {
		return nil
	}
	if !p.IsAuthenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
