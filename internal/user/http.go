// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// Handler implements the user HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new user [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] for the /users resource.
//
// The static /me segment is registered alongside /{username}; the router
// matches it first, so "me" can never be claimed as a handle target.
//
// # Endpoints
//   - GET    /            : Lists users (admin).
//   - GET    /me          : Caller's own profile (authenticated).
//   - PATCH  /me          : Updates caller's own profile (authenticated).
//   - GET    /{username}  : Fetches a user (admin).
//   - PATCH  /{username}  : Updates a user, incl. role (admin).
//   - DELETE /{username}  : Removes a user (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/me", handler.me)
	router.Patch("/me", handler.updateMe)
	router.Get("/{username}", handler.get)
	router.Patch("/{username}", handler.update)
	router.Delete("/{username}", handler.delete)

	return router
}

// list handles GET /api/v1/users requests.
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	params := pagination.FromRequest(req)

	users, total, err := handler.userService.List(req.Context(), requestutil.Principal(req), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// me handles GET /api/v1/users/me requests.
func (handler *Handler) me(writer http.ResponseWriter, req *http.Request) {
	user, err := handler.userService.Me(req.Context(), requestutil.Principal(req))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user)
}

// profileRequest is the JSON payload for self-service profile updates.
type profileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

// updateMe handles PATCH /api/v1/users/me requests.
func (handler *Handler) updateMe(writer http.ResponseWriter, req *http.Request) {
	var input profileRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.userService.UpdateMe(req.Context(), requestutil.Principal(req), ProfileInput{
		Username: input.Username,
		Bio:      input.Bio,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user)
}

// get handles GET /api/v1/users/{username} requests.
func (handler *Handler) get(writer http.ResponseWriter, req *http.Request) {
	user, err := handler.userService.GetByUsername(req.Context(), requestutil.Principal(req), requestutil.Param(req, "username"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user)
}

// adminUpdateRequest is the JSON payload for admin user updates.
type adminUpdateRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Role     *string `json:"role"`
}

// update handles PATCH /api/v1/users/{username} requests.
func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	var input adminUpdateRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.userService.UpdateByUsername(req.Context(), requestutil.Principal(req), requestutil.Param(req, "username"), AdminInput{
		Username: input.Username,
		Bio:      input.Bio,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, user)
}

// delete handles DELETE /api/v1/users/{username} requests.
func (handler *Handler) delete(writer http.ResponseWriter, req *http.Request) {
	err := handler.userService.DeleteByUsername(req.Context(), requestutil.Principal(req), requestutil.Param(req, "username"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}
