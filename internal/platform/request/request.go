// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/ctxutil"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/uuid"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter (UUID/Slug) from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a URL parameter that must be a UUID primary key.

A malformed value cannot reference any row, so it is reported as a missing
resource rather than forwarded to Postgres (which would reject the uuid
cast with a SQLSTATE 22P02 error).

Parameters:
  - request: *http.Request
  - name: string (URL parameter name, e.g. "titleID")
  - resource: string (client-facing resource name for the 404 message)

Returns:
  - string: The validated parameter value
  - error: apperr.NotFound when the value is not a UUID
*/
func UUIDParam(request *http.Request, name, resource string) (string, error) {
	value := chi.URLParam(request, name)
	if !uuid.IsValid(value) {
		return "", apperr.NotFound(resource)
	}
	return value, nil
}

/*
ClientIP returns the remote client address without the port component.

The RealIP middleware rewrites RemoteAddr from X-Forwarded-For / X-Real-IP
upstream, so this value is already proxy-aware by the time handlers run.
*/
func ClientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		// RemoteAddr may already be a bare IP when set by middleware.
		return request.RemoteAddr
	}
	return host
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
Principal converts the request's auth claims into an [*access.Principal]
for the access decision layer.

Returns nil for anonymous requests — a nil principal is a valid input to
every access predicate and always evaluates as unauthenticated.
*/
func Principal(request *http.Request) *access.Principal {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil
	}

	return &access.Principal{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      sec.Role(claims.Role),
		Superuser: claims.Superuser,
	}
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
