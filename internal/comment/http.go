// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// Handler implements the comment HTTP endpoints.
//
// Routes are mounted under /titles/{titleID}/reviews/{reviewID}/comments by
// the server composition root; handlers read both parents from the URL.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new comment [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] for the nested comments resource.
//
// # Endpoints
//   - GET    /            : Lists a review's comments (public).
//   - POST   /            : Creates a comment (authenticated).
//   - GET    /{commentID} : Fetches a single comment (public).
//   - PATCH  /{commentID} : Updates a comment (author/moderator).
//   - DELETE /{commentID} : Removes a comment (author/moderator).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{commentID}", handler.get)
	router.Patch("/{commentID}", handler.update)
	router.Delete("/{commentID}", handler.delete)

	return router
}

// pathScope holds the validated URL parameters of the comments subtree.
type pathScope struct {
	titleID  string
	reviewID string
}

// scopeFromRequest validates the parent {titleID} and {reviewID} parameters.
// A malformed id is reported as the corresponding missing resource.
func scopeFromRequest(req *http.Request) (pathScope, error) {
	titleID, err := requestutil.UUIDParam(req, "titleID", "Title")
	if err != nil {
		return pathScope{}, err
	}
	reviewID, err := requestutil.UUIDParam(req, "reviewID", "Review")
	if err != nil {
		return pathScope{}, err
	}
	return pathScope{titleID: titleID, reviewID: reviewID}, nil
}

// commentID extracts and validates the {commentID} URL parameter.
func commentID(req *http.Request) (string, error) {
	return requestutil.UUIDParam(req, "commentID", "Comment")
}

// list handles GET .../reviews/{reviewID}/comments requests.
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	scope, err := scopeFromRequest(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	params := pagination.FromRequest(req)

	comments, total, err := handler.commentService.ListByReview(
		req.Context(),
		scope.titleID,
		scope.reviewID,
		params.Limit,
		params.Offset(),
	)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET .../comments/{commentID} requests.
func (handler *Handler) get(writer http.ResponseWriter, req *http.Request) {
	scope, err := scopeFromRequest(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	id, err := commentID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	comment, err := handler.commentService.Get(req.Context(), scope.titleID, scope.reviewID, id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, comment)
}

// commentRequest is the JSON payload for comment creation and update.
type commentRequest struct {
	Text string `json:"text"`
}

// create handles POST .../reviews/{reviewID}/comments requests.
func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	scope, err := scopeFromRequest(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	comment, err := handler.commentService.Create(
		req.Context(),
		requestutil.Principal(req),
		scope.titleID,
		scope.reviewID,
		input.Text,
	)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, comment)
}

// update handles PATCH .../comments/{commentID} requests.
func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	scope, err := scopeFromRequest(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	id, err := commentID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	comment, err := handler.commentService.Update(
		req.Context(),
		requestutil.Principal(req),
		scope.titleID,
		scope.reviewID,
		id,
		input.Text,
	)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, comment)
}

// delete handles DELETE .../comments/{commentID} requests.
func (handler *Handler) delete(writer http.ResponseWriter, req *http.Request) {
	scope, err := scopeFromRequest(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	id, err := commentID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	err = handler.commentService.Delete(req.Context(), requestutil.Principal(req), scope.titleID, scope.reviewID, id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}
